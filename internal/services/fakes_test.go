package services

import (
	"fmt"
	"time"

	"github.com/DimaKostyrskyj/PriceBot/internal/domain"
	"github.com/DimaKostyrskyj/PriceBot/internal/dto"
)

// ---------- settings ----------

type fakeSettingRepo struct {
	data      map[string]string
	upsertErr error
}

func newFakeSettingRepo(seed map[string]string) *fakeSettingRepo {
	data := make(map[string]string, len(seed))
	for k, v := range seed {
		data[k] = v
	}
	return &fakeSettingRepo{data: data}
}

func (r *fakeSettingRepo) FindAll() (map[string]string, error) {
	out := make(map[string]string, len(r.data))
	for k, v := range r.data {
		out[k] = v
	}
	return out, nil
}

func (r *fakeSettingRepo) Upsert(key, value string) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.data[key] = value
	return nil
}

func newTestSettings(seed map[string]string) SettingsService {
	s, err := NewSettingsService(newFakeSettingRepo(seed))
	if err != nil {
		panic(err)
	}
	return s
}

// ---------- applications ----------

type fakeApplicationRepo struct {
	apps map[string]*domain.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[string]*domain.Application)}
}

func (r *fakeApplicationRepo) Create(app *domain.Application) (*domain.Application, error) {
	cp := *app
	cp.ID = uint(len(r.apps) + 1)
	cp.CreatedAt = time.Now()
	r.apps[cp.PublicID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeApplicationRepo) FindByPublicID(publicID string) (*domain.Application, error) {
	app, ok := r.apps[publicID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *app
	return &cp, nil
}

func (r *fakeApplicationRepo) SetCardRef(publicID, channelID, messageID string) error {
	app, ok := r.apps[publicID]
	if !ok {
		return domain.ErrNotFound
	}
	app.CardChannelID = channelID
	app.CardMessageID = messageID
	return nil
}

func (r *fakeApplicationRepo) ListByStatus(status domain.ApplicationStatus, limit, offset int) ([]domain.Application, error) {
	var out []domain.Application
	for _, app := range r.apps {
		if app.Status == status {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) MarkUnderReview(publicID, reviewerID string) error {
	app, ok := r.apps[publicID]
	if !ok || !app.Open() {
		return domain.ErrStateConflict
	}
	app.Status = domain.ApplicationStatusUnderReview
	app.ReviewerID = &reviewerID
	return nil
}

func (r *fakeApplicationRepo) Approve(publicID, reviewerID string) error {
	app, ok := r.apps[publicID]
	if !ok || !app.Open() {
		return domain.ErrStateConflict
	}
	app.Status = domain.ApplicationStatusApproved
	app.ReviewerID = &reviewerID
	return nil
}

func (r *fakeApplicationRepo) Reject(publicID, reviewerID, reason string) error {
	app, ok := r.apps[publicID]
	if !ok || !app.Open() {
		return domain.ErrStateConflict
	}
	app.Status = domain.ApplicationStatusRejected
	app.ReviewerID = &reviewerID
	app.RejectReason = &reason
	return nil
}

// ---------- contracts ----------

type fakeContractRepo struct {
	contracts map[string]*domain.Contract
	nextID    uint
}

func newFakeContractRepo() *fakeContractRepo {
	return &fakeContractRepo{contracts: make(map[string]*domain.Contract)}
}

func (r *fakeContractRepo) Create(contract *domain.Contract) (*domain.Contract, error) {
	r.nextID++
	cp := *contract
	cp.ID = r.nextID
	cp.CreatedAt = time.Now()
	r.contracts[cp.PublicID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeContractRepo) FindByPublicID(publicID string) (*domain.Contract, error) {
	c, ok := r.contracts[publicID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	cp.Participants = append([]domain.ContractParticipant(nil), c.Participants...)
	return &cp, nil
}

func (r *fakeContractRepo) SetCardRef(publicID, channelID, messageID string) error {
	c, ok := r.contracts[publicID]
	if !ok {
		return domain.ErrNotFound
	}
	c.CardChannelID = channelID
	c.CardMessageID = messageID
	return nil
}

func (r *fakeContractRepo) SetThread(publicID, threadID string) error {
	c, ok := r.contracts[publicID]
	if !ok {
		return domain.ErrNotFound
	}
	c.ThreadID = threadID
	return nil
}

func (r *fakeContractRepo) List(limit, offset int) ([]domain.Contract, error) {
	var out []domain.Contract
	for _, c := range r.contracts {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeContractRepo) findByID(contractID uint) *domain.Contract {
	for _, c := range r.contracts {
		if c.ID == contractID {
			return c
		}
	}
	return nil
}

func (r *fakeContractRepo) AddParticipant(contractID uint, userID string) error {
	c := r.findByID(contractID)
	if c == nil {
		return domain.ErrNotFound
	}
	if c.HasParticipant(userID) {
		return domain.ErrAlreadyEnrolled
	}
	c.Participants = append(c.Participants, domain.ContractParticipant{ContractID: contractID, UserID: userID})
	return nil
}

func (r *fakeContractRepo) RemoveParticipant(contractID uint, userID string) error {
	c := r.findByID(contractID)
	if c == nil || !c.HasParticipant(userID) {
		return domain.ErrNotEnrolled
	}
	kept := c.Participants[:0]
	for _, p := range c.Participants {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	c.Participants = kept
	return nil
}

func (r *fakeContractRepo) Start(publicID string) error {
	c, ok := r.contracts[publicID]
	if !ok || c.Status != domain.ContractStatusOpen {
		return domain.ErrStateConflict
	}
	c.Status = domain.ContractStatusStarted
	return nil
}

func (r *fakeContractRepo) Finish(publicID string) error {
	c, ok := r.contracts[publicID]
	if !ok || c.Status != domain.ContractStatusStarted {
		return domain.ErrStateConflict
	}
	c.Status = domain.ContractStatusFinished
	return nil
}

// ---------- audit ----------

type fakeAuditRepo struct {
	entries []domain.AuditLog
}

func (r *fakeAuditRepo) Append(entry *domain.AuditLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) ListSince(since time.Time, limit int) ([]domain.AuditLog, error) {
	return append([]domain.AuditLog(nil), r.entries...), nil
}

func (r *fakeAuditRepo) actions() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

// ---------- messenger ----------

type postedCard struct {
	ChannelID string
	Content   string
	Card      dto.Card
	Controls  dto.ControlSet
	Ref       string
}

type editedCard struct {
	ChannelID string
	MessageID string
	Card      dto.Card
	Controls  dto.ControlSet
	Ref       string
}

type fakeMessenger struct {
	posts   []postedCard
	edits   []editedCard
	dms     map[string][]dto.Card
	threads []string

	postErr   error
	threadErr error
	dmErr     error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{dms: make(map[string][]dto.Card)}
}

func (m *fakeMessenger) PostCard(channelID, content string, card dto.Card, controls dto.ControlSet, ref string) (string, error) {
	if m.postErr != nil {
		return "", m.postErr
	}
	m.posts = append(m.posts, postedCard{channelID, content, card, controls, ref})
	return fmt.Sprintf("msg-%d", len(m.posts)), nil
}

func (m *fakeMessenger) EditCard(channelID, messageID string, card dto.Card, controls dto.ControlSet, ref string) error {
	m.edits = append(m.edits, editedCard{channelID, messageID, card, controls, ref})
	return nil
}

func (m *fakeMessenger) SendDM(userID string, card dto.Card) error {
	if m.dmErr != nil {
		return m.dmErr
	}
	m.dms[userID] = append(m.dms[userID], card)
	return nil
}

func (m *fakeMessenger) CreateThread(channelID, messageID, name string) (string, error) {
	if m.threadErr != nil {
		return "", m.threadErr
	}
	m.threads = append(m.threads, name)
	return fmt.Sprintf("thread-%d", len(m.threads)), nil
}

func (m *fakeMessenger) PostToThread(threadID, content string) error { return nil }

func (m *fakeMessenger) PinMessage(channelID, messageID string) error { return nil }

func (m *fakeMessenger) lastEdit() editedCard {
	return m.edits[len(m.edits)-1]
}

// ---------- directory ----------

type fakeDirectory struct {
	roles      map[string][]string
	added      map[string][]string
	addRoleErr error
}

func newFakeDirectory(roles map[string][]string) *fakeDirectory {
	return &fakeDirectory{
		roles: roles,
		added: make(map[string][]string),
	}
}

func (d *fakeDirectory) MemberRoleIDs(userID string) ([]string, error) {
	return d.roles[userID], nil
}

func (d *fakeDirectory) AddRole(userID, roleID string) error {
	if d.addRoleErr != nil {
		return d.addRoleErr
	}
	d.added[userID] = append(d.added[userID], roleID)
	return nil
}

func (d *fakeDirectory) RoleName(roleID string) string { return "role-" + roleID }

// ---------- broker ----------

type fakeProducer struct {
	keys     []string
	payloads []string
}

func (p *fakeProducer) PublishMessage(key, value []byte) error {
	p.keys = append(p.keys, string(key))
	p.payloads = append(p.payloads, string(value))
	return nil
}
