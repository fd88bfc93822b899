package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pinglayer/pinglayer-api/internal/auth"
	"github.com/pinglayer/pinglayer-api/internal/core/domain"
	"github.com/pinglayer/pinglayer-api/internal/core/ports"
	"github.com/pinglayer/pinglayer-api/internal/infrastructure/queue"
)

type stubSmartLinkService struct {
	resolveFn func(ctx context.Context, code string) (*domain.SmartLink, error)
	createFn  func(ctx context.Context, identity auth.Identity, campaignID string, input ports.CreateLinkInput) (*domain.SmartLink, error)
}

func (s *stubSmartLinkService) Create(ctx context.Context, identity auth.Identity, campaignID string, input ports.CreateLinkInput) (*domain.SmartLink, error) {
	return s.createFn(ctx, identity, campaignID, input)
}

func (s *stubSmartLinkService) ListByCampaign(context.Context, auth.Identity, string) ([]*domain.SmartLink, error) {
	return nil, nil
}

func (s *stubSmartLinkService) Stats(context.Context, auth.Identity, string) (*ports.LinkStats, error) {
	return nil, nil
}

func (s *stubSmartLinkService) Update(context.Context, auth.Identity, string, ports.UpdateLinkInput) (*domain.SmartLink, error) {
	return nil, nil
}

func (s *stubSmartLinkService) Resolve(ctx context.Context, code string) (*domain.SmartLink, error) {
	return s.resolveFn(ctx, code)
}

// recordingClickService captures processed clicks for assertions.
type recordingClickService struct {
	clicks chan ports.ClickInput
}

func (s *recordingClickService) Process(_ context.Context, click ports.ClickInput) error {
	s.clicks <- click
	return nil
}

func TestSmartLinkHandler_Redirect(t *testing.T) {
	stub := &stubSmartLinkService{
		resolveFn: func(_ context.Context, code string) (*domain.SmartLink, error) {
			if code != "abcd1234" {
				t.Fatalf("unexpected code: %s", code)
			}
			return &domain.SmartLink{
				ID:             "link1",
				ShortCode:      code,
				DestinationURL: "https://example.com/landing",
				IsActive:       true,
			}, nil
		},
	}

	recorder := &recordingClickService{clicks: make(chan ports.ClickInput, 1)}
	dispatcher := queue.NewDispatcher(1, recorder, zerolog.Nop())
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	h := NewSmartLinkHandler(stub, dispatcher)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/s/abcd1234", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone)")
	req.Header.Set("Referer", "https://wa.me")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/s/:code")
	c.SetParamNames("code")
	c.SetParamValues("abcd1234")

	if err := h.Redirect(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://example.com/landing" {
		t.Fatalf("unexpected location: %s", loc)
	}

	select {
	case click := <-recorder.clicks:
		if click.ShortCode != "abcd1234" {
			t.Fatalf("unexpected click: %+v", click)
		}
		if click.UserAgent != "Mozilla/5.0 (iPhone)" || click.Referrer != "https://wa.me" {
			t.Fatalf("request metadata not captured: %+v", click)
		}
	case <-time.After(time.Second):
		t.Fatalf("click was not enqueued")
	}
}

func TestSmartLinkHandler_Redirect_DeadLink(t *testing.T) {
	for _, sentinel := range []error{domain.ErrLinkNotFound, domain.ErrLinkInactive, domain.ErrLinkExpired} {
		stub := &stubSmartLinkService{
			resolveFn: func(context.Context, string) (*domain.SmartLink, error) {
				return nil, sentinel
			},
		}
		h := NewSmartLinkHandler(stub, queue.NewDispatcher(1, &recordingClickService{clicks: make(chan ports.ClickInput, 1)}, zerolog.Nop()))

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/s/dead", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/s/:code")
		c.SetParamNames("code")
		c.SetParamValues("dead")

		if err := h.Redirect(c); !errors.Is(err, sentinel) {
			t.Fatalf("expected %v passthrough, got %v", sentinel, err)
		}
	}
}

func TestSmartLinkHandler_Create(t *testing.T) {
	stub := &stubSmartLinkService{
		createFn: func(_ context.Context, identity auth.Identity, campaignID string, input ports.CreateLinkInput) (*domain.SmartLink, error) {
			if identity.CompanyID != "company1" || campaignID != "campaign1" {
				t.Fatalf("unexpected scope: %+v %s", identity, campaignID)
			}
			return &domain.SmartLink{
				ID:             "link1",
				CampaignID:     campaignID,
				ShortCode:      "zzzz9999",
				DestinationURL: input.DestinationURL,
				IsActive:       true,
			}, nil
		},
	}
	h := NewSmartLinkHandler(stub, nil)

	c, rec := newTestContext(t, http.MethodPost, "/api/links",
		`{"campaign_id":"campaign1","destination_url":"https://example.com/offer","title":"Offer"}`)
	c.Set("identity", auth.Identity{UserID: "user1", CompanyID: "company1", Email: "a@example.com"})

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestSmartLinkHandler_Create_RejectsBadURL(t *testing.T) {
	h := NewSmartLinkHandler(&stubSmartLinkService{
		createFn: func(context.Context, auth.Identity, string, ports.CreateLinkInput) (*domain.SmartLink, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}, nil)

	c, _ := newTestContext(t, http.MethodPost, "/api/links",
		`{"campaign_id":"campaign1","destination_url":"not-a-url"}`)
	c.Set("identity", auth.Identity{UserID: "user1", CompanyID: "company1", Email: "a@example.com"})

	err := h.Create(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
