package config

import "testing"

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, Mode: "release"},
		Image:  ImageConfig{Provider: "dalle"},
		Plans:  DefaultPlans(),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"invalid mode", func(c *Config) { c.Server.Mode = "production" }, true},
		{"t2p provider", func(c *Config) { c.Image.Provider = "t2p" }, false},
		{"unknown image provider", func(c *Config) { c.Image.Provider = "midjourney" }, true},
		{"plan without id", func(c *Config) { c.Plans[0].ID = "" }, true},
		{"plan with zero credits", func(c *Config) { c.Plans[1].Credits = 0 }, true},
		{"plan with zero price", func(c *Config) { c.Plans[2].Price = 0 }, true},
		{"no plans", func(c *Config) { c.Plans = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultPlans(t *testing.T) {
	plans := DefaultPlans()
	if len(plans) != 3 {
		t.Fatalf("expected 3 default plans, got %d", len(plans))
	}

	ids := map[string]int64{"basic": 100, "pro": 500, "premium": 2000}
	for _, p := range plans {
		want, ok := ids[p.ID]
		if !ok {
			t.Errorf("unexpected plan id %s", p.ID)
			continue
		}
		if p.Credits != want {
			t.Errorf("plan %s credits = %d, want %d", p.ID, p.Credits, want)
		}
	}
}
