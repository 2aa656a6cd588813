package inspections

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	domai "github.com/bryanwahyu/salvage-vision/internal/domain/ai"
	"github.com/bryanwahyu/salvage-vision/internal/domain/auditerrors"
	"github.com/bryanwahyu/salvage-vision/internal/domain/inspection"
)

type fakeRepo struct {
	inserted *inspection.Inspection
	upserted *inspection.Inspection
	saveErr  error

	demo []*inspection.Inspection
	user []*inspection.Inspection

	feedback *inspection.Feedback
}

func (f *fakeRepo) InsertUser(_ context.Context, ins *inspection.Inspection) (inspection.InspectionID, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.inserted = ins
	return ins.ID, nil
}

func (f *fakeRepo) UpsertDemo(_ context.Context, ins *inspection.Inspection) (inspection.InspectionID, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.upserted = ins
	return ins.ID, nil
}

func (f *fakeRepo) DemoHistory(context.Context, int) ([]*inspection.Inspection, error) {
	return f.demo, nil
}

func (f *fakeRepo) UserHistory(context.Context, string, int) ([]*inspection.Inspection, error) {
	return f.user, nil
}

func (f *fakeRepo) GetDemo(_ context.Context, id inspection.InspectionID) (*inspection.Inspection, error) {
	for _, ins := range f.demo {
		if ins.ID == id {
			return ins, nil
		}
	}
	return nil, inspection.ErrNotFound
}

func (f *fakeRepo) GetUser(_ context.Context, userID string, id inspection.InspectionID) (*inspection.Inspection, error) {
	for _, ins := range f.user {
		if ins.ID == id && ins.UserID == userID {
			return ins, nil
		}
	}
	return nil, inspection.ErrNotFound
}

func (f *fakeRepo) SaveFeedback(_ context.Context, fb *inspection.Feedback) error {
	f.feedback = fb
	return nil
}

type fakeScraper struct {
	urls   []string
	err    error
	called bool
}

func (f *fakeScraper) Images(context.Context, string) ([]string, error) {
	f.called = true
	return f.urls, f.err
}

type fakeFetcher struct {
	perURL bool // one image per requested URL
	images []*inspection.Image
	urls   []string
}

func (f *fakeFetcher) FetchAll(_ context.Context, urls []string) []*inspection.Image {
	f.urls = urls
	if f.perURL {
		out := make([]*inspection.Image, 0, len(urls))
		for _, u := range urls {
			out = append(out, &inspection.Image{SourceURL: u, MimeType: "image/jpeg", Base64: "aGk="})
		}
		return out
	}
	return f.images
}

type fakeVision struct {
	reply  string
	err    error
	called bool
}

func (f *fakeVision) Inspect(context.Context, []*inspection.Image) (string, error) {
	f.called = true
	return f.reply, f.err
}

type fakeAudit struct {
	errs []*auditerrors.AnalysisError
}

func (f *fakeAudit) Save(_ context.Context, e *auditerrors.AnalysisError) error {
	f.errs = append(f.errs, e)
	return nil
}

func (f *fakeAudit) ListByURL(context.Context, string, int) ([]*auditerrors.AnalysisError, error) {
	return f.errs, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

const goodReply = `{"vehicle_summary":"front-end collision","parts":[{"code":"HOD","status":"DAMAGED","severity":"SEVERE","visual_evidence":"crumpled","confidence":0.9}]}`

func newTestService(repo *fakeRepo, scraper *fakeScraper, fetcher *fakeFetcher, vision *fakeVision, audit *fakeAudit) *Service {
	svc := &Service{
		Repo:    repo,
		Scraper: scraper,
		Fetcher: fetcher,
		Vision:  vision,
		Clock:   fixedClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)},
		Log:     zap.NewNop().Sugar(),
	}
	if audit != nil {
		svc.Errors = audit
	}
	return svc
}

func TestAnalyzeSuppliedImages(t *testing.T) {
	repo := &fakeRepo{}
	scraper := &fakeScraper{urls: []string{"https://cdn.example.com/scraped.jpg"}}
	fetcher := &fakeFetcher{perURL: true}
	vision := &fakeVision{reply: goodReply}
	svc := newTestService(repo, scraper, fetcher, vision, nil)

	res, err := svc.Analyze(context.Background(), AnalyzeCommand{
		URL:       "https://www.iaai.com/VehicleDetail/2021~Toyota~Camry",
		ImageURLs: []string{"https://cdn.example.com/1.jpg", "https://cdn.example.com/2.jpg"},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if scraper.called {
		t.Error("scraper called even though images were supplied")
	}
	if len(res.Analysis) != inspection.CatalogSize {
		t.Errorf("analysis len = %d, want %d", len(res.Analysis), inspection.CatalogSize)
	}
	if res.HealthScore != 0 {
		t.Errorf("healthScore = %d, want 0", res.HealthScore)
	}
	if res.VehicleName != "2021 Toyota Camry" {
		t.Errorf("vehicleName = %q", res.VehicleName)
	}
	if res.VehicleSummary != "front-end collision" {
		t.Errorf("vehicleSummary = %q", res.VehicleSummary)
	}
	if res.InspectionID == "" {
		t.Error("inspectionId empty after successful save")
	}

	if repo.upserted == nil {
		t.Fatal("anonymous analysis must go to the demo partition")
	}
	if repo.inserted != nil {
		t.Error("anonymous analysis must not insert a user record")
	}
	if !repo.upserted.IsDemo || repo.upserted.UserID != "" {
		t.Errorf("demo record flags wrong: %+v", repo.upserted)
	}
	if repo.upserted.ThumbnailURL != "https://cdn.example.com/1.jpg" {
		t.Errorf("thumbnail = %q, want first image", repo.upserted.ThumbnailURL)
	}
}

func TestAnalyzeUserInsert(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeScraper{}, &fakeFetcher{perURL: true}, &fakeVision{reply: goodReply}, nil)

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{
		URL:       "https://example.com/lot/1",
		ImageURLs: []string{"https://cdn.example.com/1.jpg"},
		UserID:    "user-42",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if repo.inserted == nil {
		t.Fatal("signed-in analysis must insert a user record")
	}
	if repo.upserted != nil {
		t.Error("signed-in analysis must not touch the demo partition")
	}
	if repo.inserted.UserID != "user-42" || repo.inserted.IsDemo {
		t.Errorf("user record flags wrong: %+v", repo.inserted)
	}
}

func TestAnalyzeScrapeFallback(t *testing.T) {
	// every supplied URL is invalid, so discovery kicks in
	repo := &fakeRepo{}
	scraper := &fakeScraper{urls: []string{
		"https://cdn.example.com/found.jpg",
		"http://169.254.169.254/latest/meta-data", // scraped URLs are gated too
	}}
	fetcher := &fakeFetcher{perURL: true}
	svc := newTestService(repo, scraper, fetcher, &fakeVision{reply: goodReply}, nil)

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{
		URL:       "https://example.com/lot/1",
		ImageURLs: []string{"http://localhost/evil.jpg"},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !scraper.called {
		t.Fatal("scraper not called when no valid image URLs were supplied")
	}
	if len(fetcher.urls) != 1 || fetcher.urls[0] != "https://cdn.example.com/found.jpg" {
		t.Errorf("fetched %v, want only the safe scraped URL", fetcher.urls)
	}
}

func TestAnalyzeManualInputRequired(t *testing.T) {
	audit := &fakeAudit{}
	vision := &fakeVision{reply: goodReply}
	svc := newTestService(&fakeRepo{}, &fakeScraper{}, &fakeFetcher{}, vision, audit)

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{URL: "https://example.com/lot/1"})
	if !errors.Is(err, inspection.ErrManualInputRequired) {
		t.Fatalf("err = %v, want ErrManualInputRequired", err)
	}
	if vision.called {
		t.Error("vision gateway called with no images")
	}
	if len(audit.errs) != 1 || audit.errs[0].Phase != "scrape" {
		t.Errorf("audit trail = %+v, want one scrape-phase entry", audit.errs)
	}
}

func TestAnalyzeNoFetchableImages(t *testing.T) {
	audit := &fakeAudit{}
	vision := &fakeVision{reply: goodReply}
	svc := newTestService(&fakeRepo{}, &fakeScraper{}, &fakeFetcher{}, vision, audit)

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{
		URL:       "https://example.com/lot/1",
		ImageURLs: []string{"https://cdn.example.com/1.jpg"},
	})
	if !errors.Is(err, inspection.ErrNoFetchableImages) {
		t.Fatalf("err = %v, want ErrNoFetchableImages", err)
	}
	if vision.called {
		t.Error("vision gateway called with zero fetched images")
	}
	if len(audit.errs) != 1 || audit.errs[0].Phase != "fetch" {
		t.Errorf("audit trail = %+v, want one fetch-phase entry", audit.errs)
	}
}

func TestAnalyzeInvalidURL(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeScraper{}, &fakeFetcher{}, &fakeVision{}, nil)
	_, err := svc.Analyze(context.Background(), AnalyzeCommand{URL: "http://localhost/admin"})
	if !errors.Is(err, inspection.ErrInvalidURL) {
		t.Fatalf("err = %v, want ErrInvalidURL", err)
	}
}

func TestAnalyzeUnparsableReply(t *testing.T) {
	audit := &fakeAudit{}
	svc := newTestService(&fakeRepo{}, &fakeScraper{}, &fakeFetcher{perURL: true},
		&fakeVision{reply: "I could not find any JSON worth returning."}, audit)

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{
		URL:       "https://example.com/lot/1",
		ImageURLs: []string{"https://cdn.example.com/1.jpg"},
	})
	if !errors.Is(err, domai.ErrUnparsableReply) {
		t.Fatalf("err = %v, want ErrUnparsableReply", err)
	}
	if len(audit.errs) != 1 || audit.errs[0].Phase != "parse" {
		t.Fatalf("audit trail = %+v, want one parse-phase entry", audit.errs)
	}
	if audit.errs[0].DetailsJSON == "" {
		t.Error("parse-phase audit entry should capture the raw reply")
	}
}

func TestAnalyzeSaveFailureStillReturnsResult(t *testing.T) {
	repo := &fakeRepo{saveErr: errors.New("db down")}
	svc := newTestService(repo, &fakeScraper{}, &fakeFetcher{perURL: true}, &fakeVision{reply: goodReply}, nil)

	res, err := svc.Analyze(context.Background(), AnalyzeCommand{
		URL:       "https://example.com/lot/1",
		ImageURLs: []string{"https://cdn.example.com/1.jpg"},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.InspectionID != "" {
		t.Errorf("inspectionId = %q, want empty when save fails", res.InspectionID)
	}
	if len(res.Analysis) != inspection.CatalogSize {
		t.Errorf("analysis len = %d, want %d", len(res.Analysis), inspection.CatalogSize)
	}
}

func TestHistoryMergesPartitions(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2026, 8, 1, h, 0, 0, 0, time.UTC) }
	repo := &fakeRepo{
		demo: []*inspection.Inspection{
			{ID: "d1", CreatedAt: at(10), IsDemo: true},
			{ID: "d2", CreatedAt: at(8), IsDemo: true},
		},
		user: []*inspection.Inspection{
			{ID: "u1", UserID: "user-1", CreatedAt: at(9)},
		},
	}
	svc := newTestService(repo, &fakeScraper{}, &fakeFetcher{}, &fakeVision{}, nil)

	list, err := svc.History(context.Background(), "user-1", 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	got := make([]string, 0, len(list))
	for _, ins := range list {
		got = append(got, string(ins.ID))
	}
	want := []string{"d1", "u1", "d2"}
	if len(got) != len(want) {
		t.Fatalf("history = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("history = %v, want %v (newest first)", got, want)
		}
	}

	// anonymous callers only see demo records
	list, err = svc.History(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("anonymous history len = %d, want 2", len(list))
	}
}

func TestGetPrefersOwnPartition(t *testing.T) {
	repo := &fakeRepo{
		demo: []*inspection.Inspection{{ID: "shared", IsDemo: true}},
		user: []*inspection.Inspection{{ID: "shared", UserID: "user-1"}},
	}
	svc := newTestService(repo, &fakeScraper{}, &fakeFetcher{}, &fakeVision{}, nil)

	ins, err := svc.Get(context.Background(), "user-1", "shared")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ins.UserID != "user-1" {
		t.Error("signed-in lookup should hit the user partition first")
	}

	ins, err = svc.Get(context.Background(), "", "shared")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ins.IsDemo {
		t.Error("anonymous lookup should hit the demo partition")
	}

	if _, err := svc.Get(context.Background(), "user-1", "missing"); !errors.Is(err, inspection.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveFeedback(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeScraper{}, &fakeFetcher{}, &fakeVision{}, nil)

	err := svc.SaveFeedback(context.Background(), &inspection.Feedback{
		InspectionID: "ins-1", PartCode: inspection.CodeHood, UserID: "user-1", Rating: true,
	})
	if err != nil {
		t.Fatalf("SaveFeedback: %v", err)
	}
	if repo.feedback == nil || repo.feedback.CreatedAt.IsZero() {
		t.Error("feedback not saved with a timestamp")
	}

	err = svc.SaveFeedback(context.Background(), &inspection.Feedback{
		InspectionID: "ins-1", PartCode: "XYZ", UserID: "user-1",
	})
	if err == nil {
		t.Error("unknown part code accepted")
	}
}
