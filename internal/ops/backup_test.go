package ops

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	got := map[string]string{}
	require.NoError(t, filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		got[filepath.ToSlash(rel)] = string(b)
		return nil
	}))
	return got
}

func TestBackupRestore_RoundTrip(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data")
	files := map[string]string{
		"save.json":         `{"balance":123,"lifetime_earned":456}`,
		"archive/old.json":  `{"balance":1}`,
		"archive/old2.json": `{"balance":2}`,
	}
	writeTree(t, src, files)

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	require.NoError(t, Backup(src, archive))
	_, err := os.Stat(archive)
	require.NoError(t, err)

	restoreDir := filepath.Join(t.TempDir(), "restore")
	require.NoError(t, Restore(archive, restoreDir))

	assert.Equal(t, files, readTree(t, restoreDir))
}

func TestBackup_SkipsTempAndWALFiles(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data")
	writeTree(t, src, map[string]string{
		"save.json":     `{}`,
		"save.json.tmp": `partial`,
		"save.db":       `sqlite`,
		"save.db-wal":   `wal`,
		"save.db-shm":   `shm`,
	})

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	require.NoError(t, Backup(src, archive))

	restoreDir := filepath.Join(t.TempDir(), "restore")
	require.NoError(t, Restore(archive, restoreDir))

	assert.Equal(t, map[string]string{
		"save.json": `{}`,
		"save.db":   `sqlite`,
	}, readTree(t, restoreDir))
}

func TestBackup_MissingSource(t *testing.T) {
	err := Backup(filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "out.tar.gz"))
	assert.Error(t, err)
}

func TestRestore_RejectsPathTraversal(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "bad.tar.gz")
	f, err := os.Create(archive)
	require.NoError(t, err)

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "../escape.txt",
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len("bad")),
	}))
	_, err = tw.Write([]byte("bad"))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	assert.Error(t, Restore(archive, filepath.Join(t.TempDir(), "out")))
}

func TestDrill_VerifiesDigest(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data")
	writeTree(t, src, map[string]string{"save.json": `{"balance":9}`})

	work := t.TempDir()
	archive, restored, err := Drill(src, work, "test")
	require.NoError(t, err)

	_, err = os.Stat(archive)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"save.json": `{"balance":9}`}, readTree(t, restored))

	srcDigest, err := DirDigest(src)
	require.NoError(t, err)
	restoredDigest, err := DirDigest(restored)
	require.NoError(t, err)
	assert.Equal(t, srcDigest, restoredDigest)
}
