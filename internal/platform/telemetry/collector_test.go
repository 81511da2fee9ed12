package telemetry

import "testing"

func TestCollector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		endpoint     string
		wantHost     string
		wantInsecure bool
		wantErr      bool
	}{
		{endpoint: "http://otel-collector:4318", wantHost: "otel-collector:4318", wantInsecure: true},
		{endpoint: "https://otel.example.com", wantHost: "otel.example.com", wantInsecure: false},
		{endpoint: "otel-collector:4318", wantHost: "otel-collector:4318", wantInsecure: true},
		{endpoint: "", wantErr: true},
	}

	for _, tt := range tests {
		host, insecure, err := collector(tt.endpoint)
		if (err != nil) != tt.wantErr {
			t.Errorf("collector(%q) error = %v, wantErr %v", tt.endpoint, err, tt.wantErr)
			continue
		}
		if host != tt.wantHost || insecure != tt.wantInsecure {
			t.Errorf("collector(%q) = (%q, %v), want (%q, %v)", tt.endpoint, host, insecure, tt.wantHost, tt.wantInsecure)
		}
	}
}
