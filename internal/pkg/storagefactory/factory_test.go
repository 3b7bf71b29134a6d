package storagefactory

import (
	"context"
	"testing"

	"quickgpt/internal/config"
)

func TestNewStorage(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		wantErr bool
	}{
		{
			name: "local storage",
			cfg: &config.StorageConfig{
				Type: "local",
				Local: &config.LocalConfig{
					BasePath:      t.TempDir(),
					BaseURL:       "http://localhost:8080/static",
					PresignExpiry: 3600,
				},
			},
			wantErr: false,
		},
		{
			name:    "local storage without config",
			cfg:     &config.StorageConfig{Type: "local"},
			wantErr: true,
		},
		{
			name:    "oss storage without config",
			cfg:     &config.StorageConfig{Type: "oss"},
			wantErr: true,
		},
		{
			name:    "unsupported type",
			cfg:     &config.StorageConfig{Type: "s3"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStorage(context.Background(), tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewStorage() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && s == nil {
				t.Error("NewStorage() returned nil storage without error")
			}
			if !tt.wantErr && s.GetStorageType() != tt.cfg.Type {
				t.Errorf("GetStorageType() = %s, want %s", s.GetStorageType(), tt.cfg.Type)
			}
		})
	}
}
