package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/pwfilter/migrations/postgres"
)

func TestParseBool(t *testing.T) {
	for _, in := range []string{"1", "true", "TRUE", " True ", "t"} {
		b, err := ParseBool(in)
		require.NoError(t, err, in)
		require.True(t, b, in)
	}
	for _, in := range []string{"0", "false", "F"} {
		b, err := ParseBool(in)
		require.NoError(t, err, in)
		require.False(t, b, in)
	}
	for _, in := range []string{"", "yes", "2", "off"} {
		_, err := ParseBool(in)
		require.ErrorIs(t, err, ErrUnreadable, in)
	}
}

func TestMap(t *testing.T) {
	ctx := context.Background()
	m := NewMap(map[string]map[string]string{
		"pwfilter": {"path": "/tmp/words.txt", "flag": "1", "junk": "maybe"},
	})

	v, ok := m.GetString(ctx, "pwfilter", "path")
	require.True(t, ok)
	require.Equal(t, "/tmp/words.txt", v)

	_, ok = m.GetString(ctx, "other", "path")
	require.False(t, ok)

	b, err := m.GetBool(ctx, "pwfilter", "flag")
	require.NoError(t, err)
	require.True(t, b)

	_, err = m.GetBool(ctx, "pwfilter", "missing")
	require.ErrorIs(t, err, ErrUnreadable)

	_, err = m.GetBool(ctx, "pwfilter", "junk")
	require.ErrorIs(t, err, ErrUnreadable)

	// Los cambios se ven en la siguiente lectura.
	m.Set("pwfilter", "flag", "0")
	b, err = m.GetBool(ctx, "pwfilter", "flag")
	require.NoError(t, err)
	require.False(t, b)

	m.Delete("pwfilter", "flag")
	_, err = m.GetBool(ctx, "pwfilter", "flag")
	require.ErrorIs(t, err, ErrUnreadable)
}

func TestFileStore_ReadsFreshEveryCall(t *testing.T) {
	ctx := context.Background()
	p := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(p, []byte("pwfilter:\n  words_dictionary_file: /a.txt\n  words_dictionary_filter_disabled: true\n"), 0o600))

	s := NewFileStore(p)
	v, ok := s.GetString(ctx, "pwfilter", "words_dictionary_file")
	require.True(t, ok)
	require.Equal(t, "/a.txt", v)
	b, err := s.GetBool(ctx, "pwfilter", "words_dictionary_filter_disabled")
	require.NoError(t, err)
	require.True(t, b)

	require.NoError(t, os.WriteFile(p, []byte("pwfilter:\n  words_dictionary_filter_disabled: 0\n"), 0o600))
	b, err = s.GetBool(ctx, "pwfilter", "words_dictionary_filter_disabled")
	require.NoError(t, err)
	require.False(t, b)
	_, ok = s.GetString(ctx, "pwfilter", "words_dictionary_file")
	require.False(t, ok)

	require.NoError(t, os.WriteFile(p, []byte("pwfilter: [not, a, map\n"), 0o600))
	_, err = s.GetBool(ctx, "pwfilter", "words_dictionary_filter_disabled")
	require.ErrorIs(t, err, ErrUnreadable)

	require.NoError(t, os.Remove(p))
	_, err = s.GetBool(ctx, "pwfilter", "words_dictionary_filter_disabled")
	require.ErrorIs(t, err, ErrUnreadable)
}

func TestEnvStore(t *testing.T) {
	ctx := context.Background()
	env := map[string]string{
		"PWFILTER_WORDS_DICTIONARY_FILE":             "/w.txt",
		"PWFILTER_PASSWORDS_LIST_FILTER_DISABLED":    "1",
		"X_PWFILTER_WORDS_DICTIONARY_FILTER_DISABLED": "nope",
	}
	s := EnvStore{Lookup: func(k string) (string, bool) { v, ok := env[k]; return v, ok }}

	require.Equal(t, "PWFILTER_WORDS_DICTIONARY_FILE", s.VarName("pwfilter", "words_dictionary_file"))
	require.Equal(t, "MY_SCOPE_A_B", s.VarName("my-scope", "a.b"))

	v, ok := s.GetString(ctx, "pwfilter", "words_dictionary_file")
	require.True(t, ok)
	require.Equal(t, "/w.txt", v)

	b, err := s.GetBool(ctx, "pwfilter", "passwords_list_filter_disabled")
	require.NoError(t, err)
	require.True(t, b)

	prefixed := EnvStore{Prefix: "x_", Lookup: s.Lookup}
	_, err = prefixed.GetBool(ctx, "pwfilter", "words_dictionary_filter_disabled")
	require.ErrorIs(t, err, ErrUnreadable)
}

func TestEnvStore_DefaultLookup(t *testing.T) {
	t.Setenv("PWFILTER_PASSWORDS_LIST_FILE", "/p.txt")
	v, ok := EnvStore{}.GetString(context.Background(), "pwfilter", "passwords_list_file")
	require.True(t, ok)
	require.Equal(t, "/p.txt", v)
}

type fakeHash struct {
	data  map[string]string
	err   error
	calls []string
}

func (f *fakeHash) HGet(_ context.Context, key, field string) *redis.StringCmd {
	f.calls = append(f.calls, key+"/"+field)
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key+"/"+field]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	f := &fakeHash{data: map[string]string{
		"cfg:pwfilter/passwords_list_file":            "/p.txt",
		"cfg:pwfilter/passwords_list_filter_disabled": "0",
	}}
	s := NewRedisStore(f, "cfg")

	v, ok := s.GetString(ctx, "pwfilter", "passwords_list_file")
	require.True(t, ok)
	require.Equal(t, "/p.txt", v)

	b, err := s.GetBool(ctx, "pwfilter", "passwords_list_filter_disabled")
	require.NoError(t, err)
	require.False(t, b)

	_, err = s.GetBool(ctx, "pwfilter", "words_dictionary_filter_disabled")
	require.ErrorIs(t, err, ErrUnreadable)

	// Sin cache: cada lectura pega contra redis.
	_, _ = s.GetString(ctx, "pwfilter", "passwords_list_file")
	require.Len(t, f.calls, 4)

	f.err = errors.New("connection refused")
	_, ok = s.GetString(ctx, "pwfilter", "passwords_list_file")
	require.False(t, ok)
	_, err = s.GetBool(ctx, "pwfilter", "passwords_list_filter_disabled")
	require.ErrorIs(t, err, ErrUnreadable)

	require.Equal(t, "pwfilter", NewRedisStore(f, "").hashKey("pwfilter"))
}

type fakeRow struct {
	val any
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	switch d := dest[0].(type) {
	case *string:
		*d = r.val.(string)
	case *bool:
		*d = r.val.(bool)
	}
	return nil
}

type fakeDB struct {
	rows    map[string]string
	err     error
	queries []string
	execs   []string
	applied map[int]bool
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.queries = append(f.queries, sql)
	if f.err != nil {
		return fakeRow{err: f.err}
	}
	if strings.Contains(sql, "_pwfilter_migrations") {
		return fakeRow{val: f.applied[args[0].(int)]}
	}
	v, ok := f.rows[args[0].(string)+"/"+args[1].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{val: v}
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	if strings.HasPrefix(sql, "INSERT INTO _pwfilter_migrations") {
		if f.applied == nil {
			f.applied = map[int]bool{}
		}
		f.applied[args[0].(int)] = true
	}
	return pgconn.CommandTag{}, nil
}

func TestPGStore(t *testing.T) {
	ctx := context.Background()
	db := &fakeDB{rows: map[string]string{
		"pwfilter/words_dictionary_file":            "/w.txt",
		"pwfilter/words_dictionary_filter_disabled": "true",
	}}
	s := NewPGStore(db)

	v, ok := s.GetString(ctx, "pwfilter", "words_dictionary_file")
	require.True(t, ok)
	require.Equal(t, "/w.txt", v)
	require.Contains(t, db.queries[0], `FROM "pwfilter_settings"`)

	b, err := s.GetBool(ctx, "pwfilter", "words_dictionary_filter_disabled")
	require.NoError(t, err)
	require.True(t, b)

	_, err = s.GetBool(ctx, "pwfilter", "passwords_list_filter_disabled")
	require.ErrorIs(t, err, ErrUnreadable)

	db.err = errors.New("conn reset")
	_, ok = s.GetString(ctx, "pwfilter", "words_dictionary_file")
	require.False(t, ok)
}

func TestMigrate(t *testing.T) {
	migs, err := ParseMigrations(postgres.SettingsFS, postgres.SettingsDir)
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	require.Equal(t, 1, migs[0].Version)
	require.Contains(t, migs[0].SQL, "pwfilter_settings")

	db := &fakeDB{}
	res, err := Migrate(context.Background(), db)
	require.NoError(t, err)
	require.Equal(t, []int{1}, res.Applied)

	res, err = Migrate(context.Background(), db)
	require.NoError(t, err)
	require.Empty(t, res.Applied)
	require.Equal(t, []int{1}, res.Skipped)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	p, closeFn, err := Open(ctx, Config{Backend: "file", FilePath: "/etc/pwfilter/settings.yaml"})
	require.NoError(t, err)
	require.IsType(t, &FileStore{}, p)
	require.NoError(t, closeFn())

	p, _, err = Open(ctx, Config{Backend: "ENV", EnvPrefix: "X_"})
	require.NoError(t, err)
	require.Equal(t, EnvStore{Prefix: "X_"}, p)

	_, closeFn, err = Open(ctx, Config{Backend: "file"})
	require.Error(t, err)
	require.NotNil(t, closeFn)

	_, _, err = Open(ctx, Config{Backend: "registry"})
	require.Error(t, err)
}
