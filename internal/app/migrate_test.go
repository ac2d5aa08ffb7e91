package app

import (
	"errors"
	"testing"

	"github.com/riskibarqy/challenge-league/internal/config"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
)

func TestParseSteps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args    []string
		want    int
		wantErr bool
	}{
		{args: nil, want: 1},
		{args: []string{" 3 "}, want: 3},
		{args: []string{"0"}, wantErr: true},
		{args: []string{"two"}, wantErr: true},
	}
	for _, tc := range tests {
		got, err := parseSteps(tc.args)
		if (err != nil) != tc.wantErr {
			t.Fatalf("parseSteps(%v) err=%v, wantErr=%v", tc.args, err, tc.wantErr)
		}
		if err == nil && got != tc.want {
			t.Fatalf("parseSteps(%v)=%d, want %d", tc.args, got, tc.want)
		}
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	t.Parallel()

	if v, err := parseVersion("4"); err != nil || v != 4 {
		t.Fatalf("unexpected version %d, %v", v, err)
	}
	if _, err := parseVersion("-2"); err == nil {
		t.Fatalf("expected error for version below -1")
	}
	if _, err := parseTarget("-1"); err == nil {
		t.Fatalf("expected error for negative target")
	}
}

func TestMigrate_Usage(t *testing.T) {
	t.Parallel()

	err := Migrate(config.Config{DBURL: "postgres://localhost/x"}, logging.NewNop(), nil)
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if err := Migrate(config.Config{}, logging.NewNop(), []string{"up"}); err == nil {
		t.Fatalf("expected error without DB_URL")
	}
}
