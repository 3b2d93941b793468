package service

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentecalma/server/internal/model"
)

// stubStorage satisfies the storage interface without touching S3.
type stubStorage struct{}

func (stubStorage) Save(string, io.Reader) error { return nil }
func (stubStorage) Delete(string) error          { return nil }
func (stubStorage) PublicURL(path string) string { return "https://cdn.test/" + path }
func (stubStorage) PrivateURL(path string) (string, error) {
	return "https://cdn.test/signed/" + path, nil
}

func writeGuide(t *testing.T, dir, slug, frontmatter string) {
	t.Helper()
	content := "---\n" + frontmatter + "---\n\n# Conteúdo\n\nTexto do guia.\n"
	err := os.WriteFile(filepath.Join(dir, slug+".md"), []byte(content), 0o644)
	require.NoError(t, err)
}

// newGuideContent lays out a three-guide catalog: two drip days and one
// entitlement-gated program.
func newGuideContent(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "guides")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	writeGuide(t, dir, "respiracao", "title: Respiração Consciente\ndescription: Técnicas de respiração\nunlock_day: 2\npdf_key: private/guides/respiracao.pdf\n")
	writeGuide(t, dir, "ansiedade", "title: Vencendo a Ansiedade\nunlock_day: 1\nmockup_key: public/mockups/ansiedade.jpg\npdf_key: private/guides/ansiedade.pdf\n")
	writeGuide(t, dir, "detox", "title: Detox de Dopamina\nunlocked: true\nentitlement: detox21\npdf_key: private/guides/detox.pdf\n")

	return root
}

func newGuideService(t *testing.T, f *fixture, contentPath string) *GuideService {
	t.Helper()
	guides, err := NewGuideService(contentPath, f.guides, f.gamification, f.subscription, stubStorage{})
	require.NoError(t, err)
	return guides
}

func TestLoadCatalogOrdersDripFirst(t *testing.T) {
	catalog, err := LoadCatalog(newGuideContent(t))
	require.NoError(t, err)
	require.Len(t, catalog, 3)

	assert.Equal(t, "ansiedade", catalog[0].Slug)
	assert.Equal(t, 1, catalog[0].UnlockDay)
	assert.Equal(t, "respiracao", catalog[1].Slug)
	assert.Equal(t, "detox", catalog[2].Slug)
	assert.False(t, catalog[2].InDrip())
	assert.Equal(t, model.EntitlementDetox21, catalog[2].Entitlement)

	assert.Equal(t, "Vencendo a Ansiedade", catalog[0].Title)
	assert.Equal(t, "Técnicas de respiração", catalog[1].Description)
	assert.NotEmpty(t, catalog[0].HTMLContent)
}

func TestListForUserAppliesDrip(t *testing.T) {
	f := newFixture(t, 2)
	userID := f.seedUser(t)
	guides := newGuideService(t, f, newGuideContent(t))

	assert.Equal(t, 2, guides.TotalUnlockable())

	state, err := f.gamification.Snapshot(userID)
	require.NoError(t, err)

	views, err := guides.ListForUser(userID, state)
	require.NoError(t, err)
	require.Len(t, views, 3)

	// Day one is open, day two counts down, the program is outside the drip.
	assert.True(t, views[0].UnlockedForUser)
	assert.False(t, views[1].UnlockedForUser)
	assert.Equal(t, 1, views[1].DaysUntil)
	assert.True(t, views[2].UnlockedForUser)
	assert.Equal(t, "https://cdn.test/public/mockups/ansiedade.jpg", views[0].MockupURL)

	f.clock.Advance(25 * time.Hour)
	_, _, err = f.gamification.StartSession(userID)
	require.NoError(t, err)

	state, err = f.gamification.Snapshot(userID)
	require.NoError(t, err)
	views, err = guides.ListForUser(userID, state)
	require.NoError(t, err)
	assert.True(t, views[1].UnlockedForUser)
}

func TestPDFURLGates(t *testing.T) {
	f := newFixture(t, 2)
	userID := f.seedUser(t)
	guides := newGuideService(t, f, newGuideContent(t))

	url, err := guides.PDFURL(userID, "ansiedade")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/signed/private/guides/ansiedade.pdf", url)

	// Still scheduled for a later day.
	_, err = guides.PDFURL(userID, "respiracao")
	assert.ErrorIs(t, err, ErrGuideLocked)

	// Entitlement-gated until the program is purchased.
	_, err = guides.PDFURL(userID, "detox")
	assert.ErrorIs(t, err, ErrGuideLocked)

	require.NoError(t, f.subscription.GrantEntitlement(userID, model.EntitlementDetox21))
	_, err = guides.PDFURL(userID, "detox")
	assert.NoError(t, err)

	_, err = guides.PDFURL(userID, "inexistente")
	assert.ErrorIs(t, err, ErrGuideNotFound)
}

func TestCompleteAwardsOnce(t *testing.T) {
	f := newFixture(t, 2)
	userID := f.seedUser(t)
	guides := newGuideService(t, f, newGuideContent(t))

	events, err := guides.Complete(userID, "ansiedade")
	require.NoError(t, err)
	assert.NotEmpty(t, events)

	state, err := f.gamification.Snapshot(userID)
	require.NoError(t, err)
	assert.Equal(t, 50, state.Points)

	// Re-completing neither errors nor awards again.
	events, err = guides.Complete(userID, "ansiedade")
	require.NoError(t, err)
	assert.Empty(t, events)

	state, err = f.gamification.Snapshot(userID)
	require.NoError(t, err)
	assert.Equal(t, 50, state.Points)
}

func TestCompleteRejectsLockedGuide(t *testing.T) {
	f := newFixture(t, 2)
	userID := f.seedUser(t)
	guides := newGuideService(t, f, newGuideContent(t))

	_, err := guides.Complete(userID, "respiracao")
	assert.ErrorIs(t, err, ErrGuideLocked)
}
