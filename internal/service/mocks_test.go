package service

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/repository"
)

// In-memory repository fakes backing the service tests. Each one keeps an
// insertion-ordered slice so replay order matches the Postgres queries.

type memLoanRepo struct {
	mu    sync.Mutex
	loans []*models.Loan
}

func (r *memLoanRepo) Create(_ context.Context, loan *models.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *loan
	r.loans = append(r.loans, &cp)
	return nil
}

func (r *memLoanRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.loans {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memLoanRepo) List(_ context.Context, filter repository.LoanFilter) ([]*models.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Loan
	for _, l := range r.loans {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.BranchCode != "" && l.BranchCode != filter.BranchCode {
			continue
		}
		if filter.LoanOfficer != "" && l.LoanOfficer != filter.LoanOfficer {
			continue
		}
		if filter.GroupID != nil && (l.GroupID == nil || *l.GroupID != *filter.GroupID) {
			continue
		}
		if (filter.ScopeOfficer != "" || filter.ScopeBranch != "") &&
			l.LoanOfficer != filter.ScopeOfficer && l.BranchCode != filter.ScopeBranch {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memLoanRepo) ListAll(_ context.Context) ([]*models.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Loan, len(r.loans))
	for i, l := range r.loans {
		cp := *l
		out[i] = &cp
	}
	return out, nil
}

func (r *memLoanRepo) Update(_ context.Context, loan *models.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.loans {
		if l.ID == loan.ID {
			cp := *loan
			cp.Collections = l.Collections
			r.loans[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memLoanRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.loans {
		if l.ID == id {
			r.loans = append(r.loans[:i], r.loans[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memLoanRepo) AppendCollections(_ context.Context, loanID uuid.UUID, entries []*models.Collection, increment decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.loans {
		if l.ID == loanID {
			for i, e := range entries {
				e.LoanID = loanID
				e.Position = len(l.Collections) + i
			}
			l.Collections = append(l.Collections, entries...)
			l.RealizedAmount = l.RealizedAmount.Add(increment)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memLoanRepo) SumPrincipalByGroup(_ context.Context, groupID uuid.UUID, category models.LoanCategory) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, l := range r.loans {
		if l.Category == category && l.GroupID != nil && *l.GroupID == groupID {
			total = total.Add(l.LoanAmount)
		}
	}
	return total, nil
}

type memConfigRepo struct {
	global   *models.LoanConfig
	byBranch map[string]*models.LoanConfig
}

func (r *memConfigRepo) Upsert(_ context.Context, cfg *models.LoanConfig) error {
	if cfg.IsGlobal() {
		r.global = cfg
		return nil
	}
	if r.byBranch == nil {
		r.byBranch = make(map[string]*models.LoanConfig)
	}
	r.byBranch[cfg.BranchCode] = cfg
	return nil
}

func (r *memConfigRepo) GetGlobal(_ context.Context) (*models.LoanConfig, error) {
	if r.global == nil {
		return nil, repository.ErrNotFound
	}
	return r.global, nil
}

func (r *memConfigRepo) GetByBranchCode(_ context.Context, code string) (*models.LoanConfig, error) {
	if cfg, ok := r.byBranch[code]; ok {
		return cfg, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memConfigRepo) List(_ context.Context) ([]*models.LoanConfig, error) {
	var out []*models.LoanConfig
	if r.global != nil {
		out = append(out, r.global)
	}
	for _, cfg := range r.byBranch {
		out = append(out, cfg)
	}
	return out, nil
}

type memDistributionRepo struct {
	distributions []*models.Distribution
}

func (r *memDistributionRepo) Create(_ context.Context, d *models.Distribution) error {
	cp := *d
	r.distributions = append(r.distributions, &cp)
	return nil
}

func (r *memDistributionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Distribution, error) {
	for _, d := range r.distributions {
		if d.ID == id {
			cp := *d
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memDistributionRepo) GetByLoanID(_ context.Context, loanID uuid.UUID) ([]*models.Distribution, error) {
	var out []*models.Distribution
	for _, d := range r.distributions {
		if d.LoanID == loanID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memDistributionRepo) ListAll(_ context.Context) ([]*models.Distribution, error) {
	out := make([]*models.Distribution, len(r.distributions))
	for i, d := range r.distributions {
		cp := *d
		out[i] = &cp
	}
	return out, nil
}

func (r *memDistributionRepo) Update(_ context.Context, d *models.Distribution) error {
	for i, existing := range r.distributions {
		if existing.ID == d.ID {
			cp := *d
			r.distributions[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memDistributionRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, d := range r.distributions {
		if d.ID == id {
			r.distributions = append(r.distributions[:i], r.distributions[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memGroupRepo struct {
	groups map[uuid.UUID]*models.Group
}

func (r *memGroupRepo) Create(_ context.Context, g *models.Group) error {
	if r.groups == nil {
		r.groups = make(map[uuid.UUID]*models.Group)
	}
	cp := *g
	r.groups[g.ID] = &cp
	return nil
}

func (r *memGroupRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Group, error) {
	if g, ok := r.groups[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memGroupRepo) GetByCode(_ context.Context, code string) (*models.Group, error) {
	for _, g := range r.groups {
		if g.Code == code {
			cp := *g
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memGroupRepo) List(_ context.Context, branchCode string) ([]*models.Group, error) {
	var out []*models.Group
	for _, g := range r.groups {
		if branchCode == "" || g.BranchCode == branchCode {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memGroupRepo) Update(_ context.Context, g *models.Group) error {
	if _, ok := r.groups[g.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *g
	r.groups[g.ID] = &cp
	return nil
}

func (r *memGroupRepo) UpdateLoanTotal(_ context.Context, id uuid.UUID, total decimal.Decimal) error {
	g, ok := r.groups[id]
	if !ok {
		return repository.ErrNotFound
	}
	g.GroupLoanTotal = total
	return nil
}

func (r *memGroupRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.groups[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.groups, id)
	return nil
}

type memClientRepo struct {
	clients map[uuid.UUID]*models.Client
}

func (r *memClientRepo) Create(_ context.Context, c *models.Client) error {
	if r.clients == nil {
		r.clients = make(map[uuid.UUID]*models.Client)
	}
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *memClientRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Client, error) {
	if c, ok := r.clients[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memClientRepo) GetByPassbook(_ context.Context, passbook string) (*models.Client, error) {
	for _, c := range r.clients {
		if c.PassbookNumber == passbook {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memClientRepo) List(_ context.Context, branchCode string, groupID *uuid.UUID) ([]*models.Client, error) {
	var out []*models.Client
	for _, c := range r.clients {
		if branchCode != "" && c.BranchCode != branchCode {
			continue
		}
		if groupID != nil && (c.GroupID == nil || *c.GroupID != *groupID) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memClientRepo) Update(_ context.Context, c *models.Client) error {
	if _, ok := r.clients[c.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *memClientRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.clients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

type memSavingsRepo struct {
	accounts []*models.SavingsAccount
	txns     []*models.SavingsTransaction
}

func (r *memSavingsRepo) FindOrCreate(_ context.Context, clientID uuid.UUID, currency models.Currency) (*models.SavingsAccount, error) {
	for _, a := range r.accounts {
		if a.ClientID == clientID {
			cp := *a
			return &cp, nil
		}
	}
	account := &models.SavingsAccount{
		ID:       uuid.New(),
		ClientID: clientID,
		Currency: currency,
		Balance:  decimal.Zero,
	}
	r.accounts = append(r.accounts, account)
	cp := *account
	return &cp, nil
}

func (r *memSavingsRepo) GetByClientID(_ context.Context, clientID uuid.UUID) (*models.SavingsAccount, error) {
	for _, a := range r.accounts {
		if a.ClientID == clientID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memSavingsRepo) AppendTransaction(_ context.Context, txn *models.SavingsTransaction) error {
	for _, a := range r.accounts {
		if a.ID == txn.AccountID {
			a.Balance = a.Balance.Add(txn.SignedAmount())
			cp := *txn
			r.txns = append(r.txns, &cp)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memSavingsRepo) GetTransactions(_ context.Context, accountID uuid.UUID) ([]*models.SavingsTransaction, error) {
	var out []*models.SavingsTransaction
	for _, t := range r.txns {
		if t.AccountID == accountID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memMetricRepo struct {
	events []*models.MetricEvent
}

func (r *memMetricRepo) RecordMany(_ context.Context, events []*models.MetricEvent) error {
	for _, e := range events {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		cp := *e
		r.events = append(r.events, &cp)
	}
	return nil
}

func (r *memMetricRepo) DeleteByNames(_ context.Context, names []models.MetricName) error {
	drop := make(map[models.MetricName]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var kept []*models.MetricEvent
	for _, e := range r.events {
		if !drop[e.Name] {
			kept = append(kept, e)
		}
	}
	r.events = kept
	return nil
}

func (r *memMetricRepo) DeleteByLoanID(_ context.Context, loanID uuid.UUID) error {
	var kept []*models.MetricEvent
	for _, e := range r.events {
		if e.LoanID == nil || *e.LoanID != loanID {
			kept = append(kept, e)
		}
	}
	r.events = kept
	return nil
}

func (r *memMetricRepo) SumByName(_ context.Context, filter repository.MetricFilter) (map[models.MetricName]decimal.Decimal, error) {
	sums := make(map[models.MetricName]decimal.Decimal)
	for _, e := range r.events {
		if filter.BranchCode != "" && e.BranchCode != filter.BranchCode {
			continue
		}
		if filter.LoanOfficer != "" && e.LoanOfficer != filter.LoanOfficer {
			continue
		}
		if filter.Currency != "" && e.Currency != filter.Currency {
			continue
		}
		if filter.From != nil && e.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.Date.After(*filter.To) {
			continue
		}
		sums[e.Name] = sums[e.Name].Add(e.Value)
	}
	return sums, nil
}

// sum is a test helper over the raw event slice
func (r *memMetricRepo) sum(name models.MetricName) decimal.Decimal {
	total := decimal.Zero
	for _, e := range r.events {
		if e.Name == name {
			total = total.Add(e.Value)
		}
	}
	return total
}

type memAgreementRepo struct {
	agreements map[uuid.UUID]*models.LoanAgreement
}

func (r *memAgreementRepo) Upsert(_ context.Context, a *models.LoanAgreement) (bool, error) {
	if r.agreements == nil {
		r.agreements = make(map[uuid.UUID]*models.LoanAgreement)
	}
	if _, ok := r.agreements[a.LoanID]; ok {
		return false, nil
	}
	cp := *a
	r.agreements[a.LoanID] = &cp
	return true, nil
}

func (r *memAgreementRepo) GetByLoanID(_ context.Context, loanID uuid.UUID) (*models.LoanAgreement, error) {
	if a, ok := r.agreements[loanID]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

type memStaffRepo struct {
	staff []*models.Staff
}

func (r *memStaffRepo) Create(_ context.Context, s *models.Staff) error {
	cp := *s
	r.staff = append(r.staff, &cp)
	return nil
}

func (r *memStaffRepo) GetByEmail(_ context.Context, email string) (*models.Staff, error) {
	for _, s := range r.staff {
		if s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memStaffRepo) GetByUsername(_ context.Context, username string) (*models.Staff, error) {
	for _, s := range r.staff {
		if s.Username == username {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memExpenseRepo struct {
	expenses []*models.Expense
}

func (r *memExpenseRepo) Create(_ context.Context, e *models.Expense) error {
	cp := *e
	r.expenses = append(r.expenses, &cp)
	return nil
}

func (r *memExpenseRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Expense, error) {
	for _, e := range r.expenses {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memExpenseRepo) List(_ context.Context, branchCode string) ([]*models.Expense, error) {
	var out []*models.Expense
	for _, e := range r.expenses {
		if branchCode == "" || e.BranchCode == branchCode {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memExpenseRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, e := range r.expenses {
		if e.ID == id {
			r.expenses = append(r.expenses[:i], r.expenses[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// testEnv bundles the fakes so assertions can reach into storage
type testEnv struct {
	deps    Dependencies
	loans   *memLoanRepo
	configs *memConfigRepo
	dists   *memDistributionRepo
	groups  *memGroupRepo
	clients *memClientRepo
	savings *memSavingsRepo
	metrics *memMetricRepo
	agrees  *memAgreementRepo
	staff   *memStaffRepo
	exps    *memExpenseRepo
}

func newTestEnv() *testEnv {
	env := &testEnv{
		loans:   &memLoanRepo{},
		configs: &memConfigRepo{},
		dists:   &memDistributionRepo{},
		groups:  &memGroupRepo{},
		clients: &memClientRepo{},
		savings: &memSavingsRepo{},
		metrics: &memMetricRepo{},
		agrees:  &memAgreementRepo{},
		staff:   &memStaffRepo{},
		exps:    &memExpenseRepo{},
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	env.deps = Dependencies{
		Repos: &repository.Repository{
			Loan:         env.loans,
			LoanConfig:   env.configs,
			Distribution: env.dists,
			Group:        env.groups,
			Client:       env.clients,
			Savings:      env.savings,
			Metric:       env.metrics,
			Agreement:    env.agrees,
			Staff:        env.staff,
			Expense:      env.exps,
		},
		Logger: logger,
	}

	return env
}

// noopNotifier satisfies NotificationService without SMTP
type noopNotifier struct{}

func (noopNotifier) SendActivationNotice(*models.Loan) {}
