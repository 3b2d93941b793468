package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCommunityPage(t *testing.T, dir, slug, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, slug+".md"), []byte(content), 0o644)
	require.NoError(t, err)
}

func TestCommunityPages(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "community")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	writeCommunityPage(t, dir, "rede-de-apoio", "---\ntitle: Rede de Apoio\nsummary: Onde buscar ajuda\nlastUpdated: 2025/02/10\n---\n\nCVV 188.\n")
	writeCommunityPage(t, dir, "boas-vindas", "---\nsummary: Comece por aqui\n---\n\nOlá!\n")

	svc := NewCommunityService(root)
	pages, err := svc.Pages()
	require.NoError(t, err)
	require.Len(t, pages, 2)

	// Sorted by slug; missing titles derive from the slug.
	assert.Equal(t, "boas-vindas", pages[0].Slug)
	assert.Equal(t, "Boas Vindas", pages[0].Title)
	assert.Equal(t, "rede-de-apoio", pages[1].Slug)
	assert.Equal(t, "Rede de Apoio", pages[1].Title)
	assert.Equal(t, "2025-02-10", pages[1].LastUpdated)
	assert.Contains(t, pages[1].Content, "CVV 188")
}

func TestCommunityPageNotFound(t *testing.T) {
	svc := NewCommunityService(t.TempDir())
	require.NoError(t, svc.LoadPages())

	_, err := svc.Page("inexistente")
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestCommunityMissingDirIsNotAnError(t *testing.T) {
	svc := NewCommunityService(filepath.Join(t.TempDir(), "vazio"))

	pages, err := svc.Pages()
	require.NoError(t, err)
	assert.Empty(t, pages)
}
