package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/pinglayer/pinglayer-api/internal/core/domain"
)

// In-memory repository stubs shared by the service tests. They enforce the
// same uniqueness rules the Mongo indexes do, so the services see the same
// sentinel errors they would in production.

type stubAuthRepo struct {
	mu        sync.Mutex
	seq       int
	users     map[string]*domain.User
	companies map[string]*domain.Company

	failUserInsert bool
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{
		users:     make(map[string]*domain.User),
		companies: make(map[string]*domain.Company),
	}
}

func (r *stubAuthRepo) nextID(prefix string) string {
	r.seq++
	return prefix + strconv.Itoa(r.seq)
}

func (r *stubAuthRepo) CreateCompany(_ context.Context, company *domain.Company) (*domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if c.Slug == company.Slug {
			return nil, domain.ErrCompanyExists
		}
	}
	clone := *company
	clone.ID = r.nextID("company")
	r.companies[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubAuthRepo) DeleteCompany(_ context.Context, companyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.companies, companyID)
	return nil
}

func (r *stubAuthRepo) FindCompanyByID(_ context.Context, companyID string) (*domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[companyID]
	if !ok {
		return nil, domain.ErrCompanyNotFound
	}
	out := *c
	return &out, nil
}

func (r *stubAuthRepo) FindCompanyBySlug(_ context.Context, slug string) (*domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if c.Slug == slug {
			out := *c
			return &out, nil
		}
	}
	return nil, domain.ErrCompanyNotFound
}

func (r *stubAuthRepo) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUserInsert {
		return nil, domain.ErrEmailExists
	}
	for _, u := range r.users {
		if u.CompanyID == user.CompanyID && u.Email == user.Email {
			return nil, domain.ErrEmailExists
		}
	}
	clone := *user
	clone.ID = r.nextID("user")
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubAuthRepo) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *stubAuthRepo) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAuthRepo) ListUsersByCompany(_ context.Context, companyID string) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*domain.User, 0)
	for _, u := range r.users {
		if u.CompanyID == companyID {
			out := *u
			users = append(users, &out)
		}
	}
	return users, nil
}

func (r *stubAuthRepo) SetUserActive(_ context.Context, companyID, userID string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || u.CompanyID != companyID {
		return domain.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

type stubCampaignRepo struct {
	mu        sync.Mutex
	seq       int
	campaigns map[string]*domain.Campaign
}

func newStubCampaignRepo() *stubCampaignRepo {
	return &stubCampaignRepo{campaigns: make(map[string]*domain.Campaign)}
}

func (r *stubCampaignRepo) Create(_ context.Context, campaign *domain.Campaign) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *campaign
	clone.ID = "campaign" + strconv.Itoa(r.seq)
	r.campaigns[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCampaignRepo) FindByID(_ context.Context, companyID, campaignID string) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[campaignID]
	if !ok || c.CompanyID != companyID {
		return nil, domain.ErrCampaignNotFound
	}
	out := *c
	return &out, nil
}

func (r *stubCampaignRepo) List(_ context.Context, companyID string, status domain.CampaignStatus) ([]*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	campaigns := make([]*domain.Campaign, 0)
	for _, c := range r.campaigns {
		if c.CompanyID != companyID {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		out := *c
		campaigns = append(campaigns, &out)
	}
	return campaigns, nil
}

func (r *stubCampaignRepo) Update(_ context.Context, campaign *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[campaign.ID]
	if !ok || c.CompanyID != campaign.CompanyID {
		return domain.ErrCampaignNotFound
	}
	clone := *campaign
	r.campaigns[clone.ID] = &clone
	return nil
}

func (r *stubCampaignRepo) Delete(_ context.Context, companyID, campaignID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[campaignID]
	if !ok || c.CompanyID != companyID {
		return domain.ErrCampaignNotFound
	}
	delete(r.campaigns, campaignID)
	return nil
}

func (r *stubCampaignRepo) SetRecipientTotal(_ context.Context, campaignID string, total int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[campaignID]
	if !ok {
		return domain.ErrCampaignNotFound
	}
	c.TotalRecipients = total
	return nil
}

type stubMessageLogRepo struct {
	logs []*domain.MessageLog
}

func (r *stubMessageLogRepo) ListByCampaign(_ context.Context, campaignID string, status domain.MessageStatus, page, limit int) ([]*domain.MessageLog, int64, error) {
	matched := make([]*domain.MessageLog, 0)
	for _, l := range r.logs {
		if l.CampaignID != campaignID {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		matched = append(matched, l)
	}
	return matched, int64(len(matched)), nil
}

type stubRecipientRepo struct {
	mu         sync.Mutex
	seq        int
	recipients map[string]*domain.Recipient
}

func newStubRecipientRepo() *stubRecipientRepo {
	return &stubRecipientRepo{recipients: make(map[string]*domain.Recipient)}
}

func (r *stubRecipientRepo) Insert(_ context.Context, recipient *domain.Recipient) (*domain.Recipient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.recipients {
		if existing.CampaignID == recipient.CampaignID && existing.PhoneNumber == recipient.PhoneNumber {
			return nil, domain.ErrRecipientExists
		}
	}
	r.seq++
	clone := *recipient
	clone.ID = "recipient" + strconv.Itoa(r.seq)
	r.recipients[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubRecipientRepo) FindByID(_ context.Context, campaignID, recipientID string) (*domain.Recipient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recipients[recipientID]
	if !ok || rec.CampaignID != campaignID {
		return nil, domain.ErrRecipientNotFound
	}
	out := *rec
	return &out, nil
}

func (r *stubRecipientRepo) List(_ context.Context, campaignID string, page, limit int) ([]*domain.Recipient, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]*domain.Recipient, 0)
	for _, rec := range r.recipients {
		if rec.CampaignID == campaignID {
			out := *rec
			matched = append(matched, &out)
		}
	}
	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return []*domain.Recipient{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubRecipientRepo) Count(_ context.Context, campaignID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, rec := range r.recipients {
		if rec.CampaignID == campaignID {
			n++
		}
	}
	return n, nil
}

func (r *stubRecipientRepo) Delete(_ context.Context, campaignID, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recipients[recipientID]
	if !ok || rec.CampaignID != campaignID {
		return domain.ErrRecipientNotFound
	}
	delete(r.recipients, recipientID)
	return nil
}

func (r *stubRecipientRepo) DeleteAll(_ context.Context, campaignID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, rec := range r.recipients {
		if rec.CampaignID == campaignID {
			delete(r.recipients, id)
			n++
		}
	}
	return n, nil
}

type stubSmartLinkRepo struct {
	mu     sync.Mutex
	seq    int
	links  map[string]*domain.SmartLink
	clicks []*domain.ClickEvent
}

func newStubSmartLinkRepo() *stubSmartLinkRepo {
	return &stubSmartLinkRepo{links: make(map[string]*domain.SmartLink)}
}

func (r *stubSmartLinkRepo) Create(_ context.Context, link *domain.SmartLink) (*domain.SmartLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.links {
		if existing.ShortCode == link.ShortCode {
			return nil, domain.ErrLinkExists
		}
	}
	r.seq++
	clone := *link
	clone.ID = "link" + strconv.Itoa(r.seq)
	r.links[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubSmartLinkRepo) FindByID(_ context.Context, linkID string) (*domain.SmartLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.links[linkID]
	if !ok {
		return nil, domain.ErrLinkNotFound
	}
	out := *l
	return &out, nil
}

func (r *stubSmartLinkRepo) FindByCode(_ context.Context, code string) (*domain.SmartLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.links {
		if l.ShortCode == code {
			out := *l
			return &out, nil
		}
	}
	return nil, domain.ErrLinkNotFound
}

func (r *stubSmartLinkRepo) ListByCampaign(_ context.Context, campaignID string) ([]*domain.SmartLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	links := make([]*domain.SmartLink, 0)
	for _, l := range r.links {
		if l.CampaignID == campaignID {
			out := *l
			links = append(links, &out)
		}
	}
	return links, nil
}

func (r *stubSmartLinkRepo) Update(_ context.Context, link *domain.SmartLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.links[link.ID]; !ok {
		return domain.ErrLinkNotFound
	}
	clone := *link
	r.links[clone.ID] = &clone
	return nil
}

func (r *stubSmartLinkRepo) IncrementClicks(_ context.Context, linkID string, unique bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.links[linkID]
	if !ok {
		return domain.ErrLinkNotFound
	}
	l.ClickCount++
	if unique {
		l.UniqueClickCount++
	}
	return nil
}

func (r *stubSmartLinkRepo) InsertClick(_ context.Context, event *domain.ClickEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *event
	r.clicks = append(r.clicks, &clone)
	return nil
}

func (r *stubSmartLinkRepo) RecentClicks(_ context.Context, linkID string, limit int) ([]*domain.ClickEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]*domain.ClickEvent, 0)
	for i := len(r.clicks) - 1; i >= 0 && len(events) < limit; i-- {
		if r.clicks[i].SmartLinkID == linkID {
			out := *r.clicks[i]
			events = append(events, &out)
		}
	}
	return events, nil
}

// stubUniqueMarker mimics the Redis SET NX marker.
type stubUniqueMarker struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func newStubUniqueMarker() *stubUniqueMarker {
	return &stubUniqueMarker{seen: make(map[string]bool)}
}

func (m *stubUniqueMarker) FirstSeen(_ context.Context, shortCode, ip string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	key := shortCode + ":" + ip
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}
