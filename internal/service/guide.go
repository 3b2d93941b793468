package service

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mentecalma/server/internal/markdown"
	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/progression"
	"github.com/mentecalma/server/internal/repository"
	"github.com/mentecalma/server/internal/storage"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrGuideNotFound = errors.New("guide not found")
	ErrGuideLocked   = errors.New("guide is locked")
)

// GuideService owns the guide catalog (markdown files with frontmatter,
// loaded once at startup) and the per-user unlock view computed from
// progression state.
type GuideService struct {
	guideRepo           repository.GuideRepository
	gamificationService *GamificationService
	subscriptionService *SubscriptionService
	storage             storage.Storage
	catalog             []model.Guide
}

func NewGuideService(
	contentPath string,
	guideRepo repository.GuideRepository,
	gamificationService *GamificationService,
	subscriptionService *SubscriptionService,
	store storage.Storage,
) (*GuideService, error) {
	catalog, err := LoadCatalog(contentPath)
	if err != nil {
		return nil, err
	}

	slog.Info("guide catalog loaded", "count", len(catalog))

	return &GuideService{
		guideRepo:           guideRepo,
		gamificationService: gamificationService,
		subscriptionService: subscriptionService,
		storage:             store,
		catalog:             catalog,
	}, nil
}

// LoadCatalog reads every guide markdown file under contentPath/guides,
// parses its frontmatter, and returns the catalog ordered by unlock day
// (drip guides first, off-drip guides after).
func LoadCatalog(contentPath string) ([]model.Guide, error) {
	pattern := filepath.Join(contentPath, "guides", "*.md")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	parser := markdown.NewParser()
	titler := cases.Title(language.BrazilianPortuguese)

	var catalog []model.Guide
	for _, file := range files {
		slug := strings.TrimSuffix(filepath.Base(file), ".md")

		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read guide %s: %w", slug, err)
		}

		htmlContent, meta, err := parser.ParseWithFrontmatter(content)
		if err != nil {
			return nil, fmt.Errorf("failed to parse guide %s: %w", slug, err)
		}

		guide := model.Guide{
			Slug:        slug,
			Title:       titler.String(strings.ReplaceAll(slug, "-", " ")),
			HTMLContent: string(htmlContent),
		}

		if title, ok := meta["title"].(string); ok {
			guide.Title = title
		}
		if description, ok := meta["description"].(string); ok {
			guide.Description = description
		}
		if pdfKey, ok := meta["pdf_key"].(string); ok {
			guide.PDFKey = pdfKey
		}
		if mockupKey, ok := meta["mockup_key"].(string); ok {
			guide.MockupKey = mockupKey
		}
		if unlockDay, ok := meta["unlock_day"].(int); ok {
			guide.UnlockDay = unlockDay
		}
		if unlocked, ok := meta["unlocked"].(bool); ok {
			guide.Unlocked = unlocked
		}
		if premium, ok := meta["premium"].(bool); ok {
			guide.Premium = premium
		}
		if entitlement, ok := meta["entitlement"].(string); ok {
			guide.Entitlement = entitlement
		}

		catalog = append(catalog, guide)
	}

	sort.SliceStable(catalog, func(i, j int) bool {
		a, b := catalog[i], catalog[j]
		if a.InDrip() != b.InDrip() {
			return a.InDrip()
		}
		if a.UnlockDay != b.UnlockDay {
			return a.UnlockDay < b.UnlockDay
		}
		return a.Slug < b.Slug
	})

	return catalog, nil
}

// TotalUnlockable returns the size of the daily drip: the ratchet clamps here.
func (s *GuideService) TotalUnlockable() int {
	n := 0
	for _, g := range s.catalog {
		if g.InDrip() {
			n++
		}
	}
	return n
}

func (s *GuideService) Catalog() []model.Guide {
	return s.catalog
}

func (s *GuideService) BySlug(slug string) (*model.Guide, error) {
	for i := range s.catalog {
		if s.catalog[i].Slug == slug {
			g := s.catalog[i]
			return &g, nil
		}
	}
	return nil, ErrGuideNotFound
}

// GuideView is a catalog entry decorated with the caller's unlock and
// completion status.
type GuideView struct {
	model.Guide
	UnlockedForUser bool
	DaysUntil       int
	Completed       bool
	MockupURL       string
}

// ListForUser returns the full catalog with per-user unlock state. Premium
// and entitlement gates apply on access, not on listing: locked guides stay
// visible so the app can show the countdown and the paywall.
func (s *GuideService) ListForUser(userID string, state progression.State) ([]GuideView, error) {
	completed, err := s.guideRepo.CompletedSlugs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed guides: %w", err)
	}
	completedSet := make(map[string]bool, len(completed))
	for _, slug := range completed {
		completedSet[slug] = true
	}

	views := make([]GuideView, 0, len(s.catalog))
	for i := range s.catalog {
		g := s.catalog[i]
		view := GuideView{
			Guide:           g,
			UnlockedForUser: progression.IsUnlocked(&g, state),
			DaysUntil:       progression.DaysUntilUnlock(&g, state),
			Completed:       completedSet[g.Slug],
		}
		if g.MockupKey != "" {
			view.MockupURL = s.storage.PublicURL(g.MockupKey)
		}
		views = append(views, view)
	}

	return views, nil
}

// canAccess checks the drip gate plus the premium/entitlement gates.
func (s *GuideService) canAccess(userID string, g *model.Guide, state progression.State) (bool, error) {
	if !progression.IsUnlocked(g, state) {
		return false, nil
	}

	if g.Entitlement != "" {
		has, err := s.subscriptionService.HasEntitlement(userID, g.Entitlement)
		if err != nil {
			return false, err
		}
		if has {
			return true, nil
		}
	}

	if g.Premium {
		sub, err := s.subscriptionService.Subscription(userID)
		if err != nil {
			return false, err
		}
		return sub.IsPremium(), nil
	}

	if g.Entitlement != "" {
		return false, nil
	}

	return true, nil
}

// PDFURL returns a short-lived download link for an unlocked guide.
func (s *GuideService) PDFURL(userID, slug string) (string, error) {
	guide, err := s.BySlug(slug)
	if err != nil {
		return "", err
	}

	state, err := s.gamificationService.Snapshot(userID)
	if err != nil {
		return "", err
	}

	ok, err := s.canAccess(userID, guide, state)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrGuideLocked
	}

	if guide.PDFKey == "" {
		return "", fmt.Errorf("guide %s has no PDF", slug)
	}

	return s.storage.PrivateURL(guide.PDFKey)
}

// Complete marks a guide finished and credits the completion award. The
// award fires only on the first completion; re-completing is a no-op.
func (s *GuideService) Complete(userID, slug string) ([]progression.Event, error) {
	guide, err := s.BySlug(slug)
	if err != nil {
		return nil, err
	}

	state, err := s.gamificationService.Snapshot(userID)
	if err != nil {
		return nil, err
	}

	ok, err := s.canAccess(userID, guide, state)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrGuideLocked
	}

	already, err := s.guideRepo.IsCompleted(userID, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check completion: %w", err)
	}
	if already {
		return nil, nil
	}

	err = s.guideRepo.MarkCompleted(userID, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to mark guide completed: %w", err)
	}

	_, events, err := s.gamificationService.Award(userID, progression.ActionGuideCompleted)
	if err != nil {
		return nil, err
	}

	slog.Info("guide completed", "user_id", userID, "slug", slug)
	return events, nil
}
