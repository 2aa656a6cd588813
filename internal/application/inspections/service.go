package inspections

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/salvage-vision/internal/application"
	domai "github.com/bryanwahyu/salvage-vision/internal/domain/ai"
	"github.com/bryanwahyu/salvage-vision/internal/domain/auditerrors"
	"github.com/bryanwahyu/salvage-vision/internal/domain/inspection"
	"github.com/bryanwahyu/salvage-vision/internal/middleware"
)

// Service implements the analysis use-cases. One invocation is a single
// scatter/gather pass: validate, discover images, fetch them concurrently,
// one gateway round trip, assemble, persist. Safe for concurrent use.
type Service struct {
	Repo    inspection.Repository
	Errors  auditerrors.Repository // optional audit trail, may be nil
	Scraper inspection.ImageLister
	Fetcher inspection.ImageFetcher
	Vision  domai.VisionClient
	Archive inspection.ImageArchiver // optional evidence mirror, may be nil
	Clock   application.Clock
	Log     *zap.SugaredLogger
}

// AnalyzeCommand is one submission. UserID is empty for anonymous callers.
type AnalyzeCommand struct {
	URL       string
	ImageURLs []string
	UserID    string
}

// AnalyzeResult is the normalized payload returned to the client. Analysis
// always holds exactly one part per catalog entry. InspectionID is empty when
// the save failed or has not happened; the analysis is still returned.
type AnalyzeResult struct {
	Analysis       []inspection.Part `json:"analysis"`
	ImageURLs      []string          `json:"imageUrls"`
	HealthScore    int               `json:"healthScore"`
	VehicleName    string            `json:"vehicleName"`
	VehicleSummary string            `json:"vehicleSummary,omitempty"`
	InspectionID   string            `json:"inspectionId,omitempty"`
}

// Analyze runs the full pipeline for one listing URL.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*AnalyzeResult, error) {
	listingURL := strings.TrimSpace(cmd.URL)
	if err := middleware.ValidateURL(listingURL); err != nil {
		return nil, fmt.Errorf("%w: %v", inspection.ErrInvalidURL, err)
	}

	// Invalid caller-supplied image URLs are dropped, not fatal.
	imageURLs := middleware.SanitizeImageURLs(cmd.ImageURLs)
	supplied := len(imageURLs) > 0

	if !supplied {
		scraped, err := s.Scraper.Images(ctx, listingURL)
		if err != nil {
			s.Log.Errorw("scrape failed", "url", listingURL, "err", err)
		}
		// Scraped URLs go through the same gate as caller-supplied ones
		// before this server fetches them.
		imageURLs = middleware.SanitizeImageURLs(scraped)
	}

	if len(imageURLs) == 0 {
		s.audit(ctx, cmd, "scrape", "no images discovered and none supplied", "")
		return nil, inspection.ErrManualInputRequired
	}

	images := s.Fetcher.FetchAll(ctx, imageURLs)
	if len(images) == 0 {
		s.audit(ctx, cmd, "fetch", "all image downloads failed", "")
		return nil, inspection.ErrNoFetchableImages
	}
	s.Log.Infow("images fetched", "url", listingURL, "requested", len(imageURLs), "fetched", len(images))

	reply, err := s.Vision.Inspect(ctx, images)
	if err != nil {
		s.audit(ctx, cmd, "ai", err.Error(), "")
		return nil, err
	}

	extracted, err := ExtractAnalysis(reply)
	if err != nil {
		s.audit(ctx, cmd, "parse", err.Error(), reply)
		return nil, err
	}

	parts := inspection.AssembleParts(extracted.Analysis)
	score := inspection.HealthScore(parts)

	ins := &inspection.Inspection{
		ID:           inspection.InspectionID(uuid.New().String()),
		CreatedAt:    s.Clock.Now(),
		VehicleURL:   listingURL,
		VehicleName:  VehicleNameFromURL(listingURL),
		ThumbnailURL: imageURLs[0],
		ImageURLs:    imageURLs,
		HealthScore:  score,
		Parts:        parts,
		UserID:       cmd.UserID,
		IsDemo:       cmd.UserID == "",
	}

	result := &AnalyzeResult{
		Analysis:       parts,
		ImageURLs:      imageURLs,
		HealthScore:    score,
		VehicleName:    ins.VehicleName,
		VehicleSummary: extracted.VehicleSummary,
	}

	// Persistence failure is logged, never surfaced: the caller still gets
	// the analysis, with no inspectionId.
	savedID, err := s.persist(ctx, ins)
	if err != nil {
		s.Log.Errorw("inspection save failed", "url", listingURL, "user", cmd.UserID, "err", err)
	} else {
		result.InspectionID = string(savedID)
		s.archiveImages(savedID, images)
	}

	return result, nil
}

func (s *Service) persist(ctx context.Context, ins *inspection.Inspection) (inspection.InspectionID, error) {
	if ins.UserID != "" {
		return s.Repo.InsertUser(ctx, ins)
	}
	return s.Repo.UpsertDemo(ctx, ins)
}

// archiveImages mirrors fetched photos to the evidence bucket in the
// background. The analysis response never waits on it.
func (s *Service) archiveImages(id inspection.InspectionID, images []*inspection.Image) {
	if s.Archive == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		for i, img := range images {
			key := fmt.Sprintf("inspections/%s/%d%s", id, i, extensionFor(img.MimeType))
			if _, err := s.Archive.Archive(ctx, key, img); err != nil {
				s.Log.Warnw("image archive failed", "key", key, "err", err)
			}
		}
	}()
}

func extensionFor(mimeType string) string {
	exts, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(exts) == 0 {
		return ".jpg"
	}
	return exts[0]
}

func (s *Service) audit(ctx context.Context, cmd AnalyzeCommand, phase, message, detail string) {
	if s.Errors == nil {
		return
	}
	e := &auditerrors.AnalysisError{
		VehicleURL: strings.TrimSpace(cmd.URL),
		UserID:     cmd.UserID,
		Phase:      phase,
		Message:    message,
		CreatedAt:  s.Clock.Now(),
	}
	if detail != "" {
		b, _ := json.Marshal(map[string]string{"reply": detail})
		e.DetailsJSON = string(b)
	}
	if err := s.Errors.Save(ctx, e); err != nil {
		s.Log.Warnw("audit save failed", "phase", phase, "err", err)
	}
}

// VehicleNameFromURL derives a display name from the last path segment of
// the listing URL, with the auction site's '~' separator turned into spaces.
// A heuristic, not a guarantee of a clean name.
func VehicleNameFromURL(listingURL string) string {
	u, err := url.Parse(listingURL)
	if err != nil {
		return "Unknown Vehicle"
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	last := segs[len(segs)-1]
	if last == "" {
		return "Unknown Vehicle"
	}
	return strings.ReplaceAll(last, "~", " ")
}

// History merges the demo partition with the caller's own records, newest
// first. Anonymous callers only see demo records.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]*inspection.Inspection, error) {
	limit = middleware.ValidateLimit(limit)

	out, err := s.Repo.DemoHistory(ctx, limit)
	if err != nil {
		return nil, err
	}
	if userID != "" {
		own, err := s.Repo.UserHistory(ctx, userID, limit)
		if err != nil {
			return nil, err
		}
		out = append(out, own...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Get looks up one inspection: the caller's own partition first when signed
// in, then the demo partition.
func (s *Service) Get(ctx context.Context, userID string, id inspection.InspectionID) (*inspection.Inspection, error) {
	if userID != "" {
		if ins, err := s.Repo.GetUser(ctx, userID, id); err == nil {
			return ins, nil
		}
	}
	return s.Repo.GetDemo(ctx, id)
}

// SaveFeedback upserts a reviewer's verdict on one part finding.
func (s *Service) SaveFeedback(ctx context.Context, fb *inspection.Feedback) error {
	if _, ok := inspection.LookupPart(fb.PartCode); !ok {
		return fmt.Errorf("unknown part code: %s", fb.PartCode)
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = s.Clock.Now()
	}
	return s.Repo.SaveFeedback(ctx, fb)
}
