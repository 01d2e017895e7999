package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discoteque/discoteque-api/internal/core/domain"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	for _, sub := range []string{"serve", "migrate"} {
		assert.Contains(t, buf.String(), sub, "Help missing %q command", sub)
	}
}

func TestRootCommand_VersionFlag(t *testing.T) {
	cmd := NewRootCmd()
	cmd.Version = "test-version"
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "test-version")
}

type fakeMigrator struct {
	calls   []string
	version uint
	dirty   bool
	err     error
	closed  bool
}

func (f *fakeMigrator) Up() error {
	f.calls = append(f.calls, "up")
	return f.err
}

func (f *fakeMigrator) Down() error {
	f.calls = append(f.calls, "down")
	return f.err
}

func (f *fakeMigrator) Steps(int) error {
	f.calls = append(f.calls, "steps")
	return f.err
}

func (f *fakeMigrator) Force(v int) error {
	f.calls = append(f.calls, "force")
	f.version, f.dirty = uint(v), false
	return f.err
}

func (f *fakeMigrator) Close() error {
	f.closed = true
	return nil
}

func (f *fakeMigrator) Version() (uint, bool, error) {
	return f.version, f.dirty, nil
}

func useFakeMigrator(t *testing.T, fake *fakeMigrator) {
	t.Helper()
	orig := newMigrator
	newMigrator = func(string) (migrator, error) { return fake, nil }
	t.Cleanup(func() { newMigrator = orig })
}

func runMigrate(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"migrate"}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestMigrateCommands(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantCalls []string
		wantOut   string
	}{
		{"up", []string{"up"}, []string{"up"}, "schema version 2"},
		{"down", []string{"down"}, []string{"down"}, "all migrations rolled back"},
		{"steps", []string{"steps", "2"}, []string{"steps"}, "schema version 2"},
		{"version", []string{"version"}, nil, "schema version 2 (dirty)"},
		{"force", []string{"force", "1"}, []string{"force"}, "schema version 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://localhost/discoteque")
			fake := &fakeMigrator{version: 2, dirty: tt.name == "version"}
			useFakeMigrator(t, fake)

			out, err := runMigrate(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCalls, fake.calls)
			assert.Contains(t, out, tt.wantOut)
			assert.True(t, fake.closed, "migrator must be closed")
		})
	}
}

func TestMigrate_PropagatesErrors(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/discoteque")
	fake := &fakeMigrator{err: errors.New("dirty database version 3")}
	useFakeMigrator(t, fake)

	_, err := runMigrate(t, "up")
	assert.ErrorContains(t, err, "dirty database version 3")
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	useFakeMigrator(t, &fakeMigrator{})

	_, err := runMigrate(t, "up")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestMigrate_InvalidArguments(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/discoteque")
	useFakeMigrator(t, &fakeMigrator{})

	_, err := runMigrate(t, "steps", "0")
	assert.ErrorContains(t, err, "invalid step count")

	_, err = runMigrate(t, "force", "-2")
	assert.Error(t, err)
}

func TestParseForceVersion(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"3", 3, false},
		{"0", 0, false},
		{"abc", 0, true},
		{"-1", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseForceVersion(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
