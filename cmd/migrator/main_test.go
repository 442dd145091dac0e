package main

import (
	"io/fs"
	"testing"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    flags
		wantErr bool
	}{
		{name: "defaults", args: nil, want: flags{}},
		{name: "steps_and_seed", args: []string{"--steps=-1", "--seed"}, want: flags{steps: -1, seed: true}},
		{name: "equals_form", args: []string{"--steps=2"}, want: flags{steps: 2}},
		{name: "unknown_flag", args: []string{"--nope"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseFlags(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got != tt.want {
				t.Fatalf("want %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	t.Parallel()

	for dir, fsys := range map[string]fs.FS{"migrations": baseFS, "test_data": devFS} {
		ups, err := fs.Glob(fsys, dir+"/*.up.sql")
		if err != nil {
			t.Fatalf("glob %s: %v", dir, err)
		}
		downs, err := fs.Glob(fsys, dir+"/*.down.sql")
		if err != nil {
			t.Fatalf("glob %s: %v", dir, err)
		}
		if len(ups) == 0 || len(ups) != len(downs) {
			t.Fatalf("%s: %d up and %d down migrations", dir, len(ups), len(downs))
		}
	}
}
