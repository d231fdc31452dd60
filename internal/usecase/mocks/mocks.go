package mocks

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc            func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateFunc            func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	DeleteFunc            func(ctx context.Context, tx usecase.Transaction, id string) error
	ListFunc              func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed stores accounts directly.
func (m *MockAccountRepository) Seed(accounts ...*domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range accounts {
		cp := *a
		m.accounts[a.ID] = &cp
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.Seed(account)
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		cp := *acc
		return &cp, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			cp := *acc
			accounts = append(accounts, &cp)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance = balance
	acc.Version++
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	cp := *account
	m.accounts[account.ID] = &cp
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(m.accounts, id)
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		cp := *acc
		accounts = append(accounts, &cp)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	if offset >= len(accounts) {
		return []*domain.Account{}, nil
	}
	accounts = accounts[offset:]
	if limit > 0 && limit < len(accounts) {
		accounts = accounts[:limit]
	}
	return accounts, nil
}

// MockTransferRepository is a mock implementation of TransferRepository.
type MockTransferRepository struct {
	mu        sync.RWMutex
	transfers map[string]*domain.Transfer

	CreateFunc  func(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Transfer, error)
	ListFunc    func(ctx context.Context, r *domain.DateRange) ([]*domain.Transfer, error)
}

func NewMockTransferRepository() *MockTransferRepository {
	return &MockTransferRepository{
		transfers: make(map[string]*domain.Transfer),
	}
}

func (m *MockTransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transfer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers[transfer.ID] = transfer
	return nil
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transfers[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTransferNotFound
}

func (m *MockTransferRepository) List(ctx context.Context, r *domain.DateRange) ([]*domain.Transfer, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, r)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	transfers := make([]*domain.Transfer, 0, len(m.transfers))
	for _, t := range m.transfers {
		if r == nil || r.Contains(t.Date) {
			transfers = append(transfers, t)
		}
	}
	sort.Slice(transfers, func(i, j int) bool { return transfers[i].Date.Before(transfers[j].Date) })
	return transfers, nil
}

// Count returns the number of stored transfers.
func (m *MockTransferRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.transfers)
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.Transaction

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error
	DeleteFunc           func(ctx context.Context, tx usecase.Transaction, id string) error
	ListFunc             func(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		items: make(map[string]*domain.Transaction),
	}
}

// Seed stores transactions directly, keeping their CreatedAt.
func (m *MockTransactionRepository) Seed(items ...*domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range items {
		cp := *t
		m.items[t.ID] = &cp
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, t)
	}
	m.Seed(t)
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.items[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[t.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	cp := *t
	m.items[t.ID] = &cp
	return nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MockTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]*domain.Transaction, 0, len(m.items))
	for _, t := range m.items {
		if filter.Matches(t) {
			cp := *t
			items = append(items, &cp)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Date.Before(items[j].Date) })
	return items, nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mu         sync.RWMutex
	categories []*domain.Category

	CreateFunc func(ctx context.Context, category *domain.Category) error
	ListFunc   func(ctx context.Context, categoryType *domain.CategoryType) ([]*domain.Category, error)
	CountFunc  func(ctx context.Context) (int64, error)
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{}
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Name == category.Name {
			return domain.ErrCategoryExists
		}
	}
	cp := *category
	m.categories = append(m.categories, &cp)
	return nil
}

func (m *MockCategoryRepository) List(ctx context.Context, categoryType *domain.CategoryType) ([]*domain.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, categoryType)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Category
	for _, c := range m.categories {
		if categoryType == nil || c.Type == *categoryType {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockCategoryRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.categories)), nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			at := publishedAt
			e.PublishedAt = &at
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return nil
}

// Events returns every recorded event.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + strconv.Itoa(m.counter)
}

// MockClock is a settable Clock.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockClock(now time.Time) *MockClock {
	return &MockClock{now: now}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
	ReleaseFunc     func(ctx context.Context, key string) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
