package selfupdate

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseAssetFor(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		goarch  string
		want    string
		wantErr bool
	}{
		{"darwin amd64", "darwin", "amd64", "darsi_Darwin_all.tar.gz", false},
		{"darwin arm64", "darwin", "arm64", "darsi_Darwin_all.tar.gz", false},
		{"linux amd64", "linux", "amd64", "darsi_Linux_x86_64.tar.gz", false},
		{"linux arm64", "linux", "arm64", "darsi_Linux_arm64.tar.gz", false},
		{"linux 386", "linux", "386", "darsi_Linux_i386.tar.gz", false},
		{"windows amd64", "windows", "amd64", "darsi_Windows_x86_64.zip", false},
		{"windows arm64", "windows", "arm64", "darsi_Windows_arm64.zip", false},
		{"unsupported os", "freebsd", "amd64", "", true},
		{"unsupported arch", "linux", "mips", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := releaseAssetFor(tt.goos, tt.goarch)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadChecksums(t *testing.T) {
	manifest := "abc123  darsi_Darwin_all.tar.gz\n" +
		"badline\n" +
		"   \n" +
		"foo  bar  baz\n" +
		"def456  darsi_Linux_x86_64.tar.gz\n"

	got := readChecksums([]byte(manifest))

	assert.Equal(t, map[string]string{
		"darsi_Darwin_all.tar.gz":   "abc123",
		"darsi_Linux_x86_64.tar.gz": "def456",
	}, got)
	assert.Empty(t, readChecksums(nil))
}

func TestCheckSHA256(t *testing.T) {
	data := []byte("hello world")
	sum := sha256.Sum256(data)

	assert.NoError(t, checkSHA256(data, hex.EncodeToString(sum[:])))

	err := checkSHA256(data, "0000000000000000000000000000000000000000000000000000000000000000")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestUnpackBinary(t *testing.T) {
	content := []byte("#!/bin/sh\necho darsi")

	t.Run("tar.gz", func(t *testing.T) {
		archive := buildTarGz(t, "darsi", content)
		got, err := unpackBinary(archive, "darsi_Darwin_all.tar.gz")
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("missing binary", func(t *testing.T) {
		archive := buildTarGz(t, "other-file", content)
		_, err := unpackBinary(archive, "darsi_Darwin_all.tar.gz")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestSwapBinaryPreservesMode(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "darsi")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0755))

	next := []byte("new-binary-content")
	sum := sha256.Sum256(next)
	require.NoError(t, swapBinary(next, target, sum[:]))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, next, got)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

// releaseServer serves a fake GitHub release: latest tag v2.0.0, one
// archive asset, and a checksums manifest with the given digest.
func releaseServer(t *testing.T, asset string, archive []byte, digestHex string) *httptest.Server {
	t.Helper()
	checksums := fmt.Sprintf("%s  %s\n", digestHex, asset)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/darsihq/darsi/releases/latest":
			_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","html_url":"https://example.com/v2.0.0"}`))
		case "/darsihq/darsi/releases/download/v2.0.0/" + asset:
			_, _ = w.Write(archive)
		case "/darsihq/darsi/releases/download/v2.0.0/checksums.txt":
			_, _ = w.Write([]byte(checksums))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestUpdate(t *testing.T) {
	content := []byte("new-darsi-binary")
	archive := buildTarGz(t, "darsi", content)
	digest := sha256.Sum256(archive)
	digestHex := hex.EncodeToString(digest[:])
	asset, err := releaseAssetFor(runtime.GOOS, runtime.GOARCH)
	require.NoError(t, err)

	t.Run("happy path", func(t *testing.T) {
		dir := t.TempDir()
		execPath := filepath.Join(dir, "darsi")
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0755))

		server := releaseServer(t, asset, archive, digestHex)
		checker := NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
			withExecPath(func() (string, error) { return execPath, nil }),
		)

		var stages []string
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(p UpdateProgress) {
			stages = append(stages, p.Stage)
		})
		require.NoError(t, err)

		got, err := os.ReadFile(execPath)
		require.NoError(t, err)
		assert.Equal(t, content, got)
		assert.Equal(t, []string{"check", "download", "verify", "extract", "apply", "done"}, stages)
	})

	t.Run("dev build", func(t *testing.T) {
		checker := NewChecker()
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "(devel)"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"tag_name":"v1.0.0","html_url":"https://example.com/v1.0.0"}`))
		}))
		defer server.Close()

		checker := NewChecker(WithBaseURL(server.URL))
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		badDigest := "0000000000000000000000000000000000000000000000000000000000000000"
		server := releaseServer(t, asset, archive, badDigest)

		checker := NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
		)
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("download failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/repos/darsihq/darsi/releases/latest" {
				_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","html_url":"https://example.com/v2.0.0"}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		checker := NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
		)
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download archive")
	})
}

func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: name,
		Size: int64(len(content)),
		Mode: 0755,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}
