package test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/canteen/internal/domain/errors"
	"github.com/polkiloo/canteen/internal/domain/model"
	"github.com/polkiloo/canteen/internal/domain/repository"
)

var errDuplicateArchive = errors.New("duplicate archived order")

// MemoryStore keeps the active store, the archive, the catalog and settings in memory.
// WithinTransaction restores a snapshot when fn fails, mimicking a rollback.
type MemoryStore struct {
	mu sync.Mutex

	ActiveOrders map[int64]model.Order
	Items        map[int64][]model.LineItem
	Archived     map[int64]model.ArchivedOrder
	MenuItems    map[int64]model.MenuItem
	Status       model.CanteenStatus

	NextOrderID int64
	NextMenuID  int64

	// Fail, when set, is consulted before every repository call. A non-nil
	// result is returned in place of the call's outcome.
	Fail func(op string) error

	Commits   int
	Rollbacks int
}

// NewMemoryStore builds an empty store with the given catalog.
func NewMemoryStore(menu ...model.MenuItem) *MemoryStore {
	s := &MemoryStore{
		ActiveOrders: make(map[int64]model.Order),
		Items:        make(map[int64][]model.LineItem),
		Archived:     make(map[int64]model.ArchivedOrder),
		MenuItems:    make(map[int64]model.MenuItem),
		Status:       model.CanteenClosed,
		NextOrderID:  1,
		NextMenuID:   1,
	}
	for _, item := range menu {
		s.MenuItems[item.ID] = item
		if item.ID >= s.NextMenuID {
			s.NextMenuID = item.ID + 1
		}
	}
	return s
}

// FailOn returns a Fail function that errors only for the named operation.
func FailOn(op string, err error) func(string) error {
	return func(got string) error {
		if got == op {
			return err
		}
		return nil
	}
}

func (s *MemoryStore) fail(op string) error {
	if s.Fail == nil {
		return nil
	}
	return s.Fail(op)
}

// Orders returns the active order repository.
func (s *MemoryStore) Orders() repository.OrderRepository { return memoryOrders{s} }

// Archive returns the archive repository.
func (s *MemoryStore) Archive() repository.ArchiveRepository { return memoryArchive{s} }

// Menu returns the catalog repository.
func (s *MemoryStore) Menu() repository.MenuRepository { return memoryMenu{s} }

// Settings returns the settings repository.
func (s *MemoryStore) Settings() repository.SettingsRepository { return memorySettings{s} }

// WithinTransaction runs fn and restores the previous state when it fails.
func (s *MemoryStore) WithinTransaction(ctx context.Context, fn func(repository.Factory) error) error {
	if err := s.fail("begin"); err != nil {
		return err
	}
	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		s.Rollbacks++
		return err
	}
	if err := s.fail("commit"); err != nil {
		s.restore(snap)
		s.Rollbacks++
		return err
	}
	s.Commits++
	return nil
}

// Order returns a copy of an active order for assertions.
func (s *MemoryStore) Order(id int64) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.ActiveOrders[id]
	return order, ok
}

// ArchivedOrder returns a copy of an archived order for assertions.
func (s *MemoryStore) ArchivedOrder(id int64) (model.ArchivedOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Archived[id]
	return order, ok
}

// PutOrder stores an active order directly, bypassing placement.
func (s *MemoryStore) PutOrder(order model.Order, items ...model.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ActiveOrders[order.ID] = order
	s.Items[order.ID] = append([]model.LineItem(nil), items...)
	if order.ID >= s.NextOrderID {
		s.NextOrderID = order.ID + 1
	}
}

type memorySnapshot struct {
	orders      map[int64]model.Order
	items       map[int64][]model.LineItem
	archived    map[int64]model.ArchivedOrder
	menu        map[int64]model.MenuItem
	status      model.CanteenStatus
	nextOrderID int64
	nextMenuID  int64
}

func (s *MemoryStore) snapshot() memorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memorySnapshot{
		orders:      make(map[int64]model.Order, len(s.ActiveOrders)),
		items:       make(map[int64][]model.LineItem, len(s.Items)),
		archived:    make(map[int64]model.ArchivedOrder, len(s.Archived)),
		menu:        make(map[int64]model.MenuItem, len(s.MenuItems)),
		status:      s.Status,
		nextOrderID: s.NextOrderID,
		nextMenuID:  s.NextMenuID,
	}
	for k, v := range s.ActiveOrders {
		snap.orders[k] = v
	}
	for k, v := range s.Items {
		snap.items[k] = append([]model.LineItem(nil), v...)
	}
	for k, v := range s.Archived {
		snap.archived[k] = v
	}
	for k, v := range s.MenuItems {
		snap.menu[k] = v
	}
	return snap
}

func (s *MemoryStore) restore(snap memorySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ActiveOrders = snap.orders
	s.Items = snap.items
	s.Archived = snap.archived
	s.MenuItems = snap.menu
	s.Status = snap.status
	s.NextOrderID = snap.nextOrderID
	s.NextMenuID = snap.nextMenuID
}

type memoryOrders struct{ s *MemoryStore }

func (r memoryOrders) Create(ctx context.Context, order model.Order, items []model.LineItem) (int64, error) {
	if err := r.s.fail("orders.create"); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order.ID = r.s.NextOrderID
	r.s.NextOrderID++
	stored := make([]model.LineItem, 0, len(items))
	for _, item := range items {
		item.OrderID = order.ID
		item.Name = ""
		stored = append(stored, item)
	}
	r.s.ActiveOrders[order.ID] = order
	r.s.Items[order.ID] = stored
	return order.ID, nil
}

func (r memoryOrders) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	if err := r.s.fail("orders.get"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order, ok := r.s.ActiveOrders[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &order, nil
}

func (r memoryOrders) GetForUpdate(ctx context.Context, orderID int64) (*model.Order, error) {
	if err := r.s.fail("orders.get_for_update"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order, ok := r.s.ActiveOrders[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &order, nil
}

func (r memoryOrders) LineItems(ctx context.Context, orderID int64) ([]model.LineItem, error) {
	if err := r.s.fail("orders.items"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := append([]model.LineItem(nil), r.s.Items[orderID]...)
	for i := range items {
		items[i].Name = r.s.MenuItems[items[i].ItemID].Name
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemID < items[j].ItemID })
	return items, nil
}

func (r memoryOrders) TransitionStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) (bool, error) {
	if err := r.s.fail("orders.transition"); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order, ok := r.s.ActiveOrders[orderID]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	r.s.ActiveOrders[orderID] = order
	return true, nil
}

func (r memoryOrders) CompleteOverdue(ctx context.Context, now time.Time) (int64, error) {
	if err := r.s.fail("orders.complete_overdue"); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var changed int64
	for id, order := range r.s.ActiveOrders {
		if order.Status != model.OrderStatusPending || order.EstimatedCompletionTime == nil {
			continue
		}
		if order.EstimatedCompletionTime.After(now) {
			continue
		}
		order.Status = model.OrderStatusCompleted
		r.s.ActiveOrders[id] = order
		changed++
	}
	return changed, nil
}

func (r memoryOrders) List(ctx context.Context) ([]model.Order, error) {
	if err := r.s.fail("orders.list"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]model.Order, 0, len(r.s.ActiveOrders))
	for _, order := range r.s.ActiveOrders {
		result = append(result, order)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r memoryOrders) Delete(ctx context.Context, orderID int64) error {
	if err := r.s.fail("orders.delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.ActiveOrders[orderID]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(r.s.ActiveOrders, orderID)
	delete(r.s.Items, orderID)
	return nil
}

func (r memoryOrders) Truncate(ctx context.Context) error {
	if err := r.s.fail("orders.truncate"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ActiveOrders = make(map[int64]model.Order)
	r.s.Items = make(map[int64][]model.LineItem)
	r.s.NextOrderID = 1
	return nil
}

type memoryArchive struct{ s *MemoryStore }

func (r memoryArchive) Insert(ctx context.Context, order model.ArchivedOrder) error {
	if err := r.s.fail("archive.insert"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.Archived[order.OrderID]; exists {
		return domainErrors.Persistence(errDuplicateArchive)
	}
	r.s.Archived[order.OrderID] = order
	return nil
}

func (r memoryArchive) Delete(ctx context.Context, orderID int64) error {
	if err := r.s.fail("archive.delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.Archived, orderID)
	return nil
}

func (r memoryArchive) GetByID(ctx context.Context, orderID int64) (*model.ArchivedOrder, error) {
	if err := r.s.fail("archive.get"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order, ok := r.s.Archived[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &order, nil
}

func (r memoryArchive) Items(ctx context.Context, orderID int64) ([]model.ArchivedLineItem, error) {
	if err := r.s.fail("archive.items"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]model.ArchivedLineItem(nil), r.s.Archived[orderID].Items...), nil
}

func (r memoryArchive) List(ctx context.Context) ([]model.ArchivedOrder, error) {
	if err := r.s.fail("archive.list"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]model.ArchivedOrder, 0, len(r.s.Archived))
	for _, order := range r.s.Archived {
		result = append(result, order)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OrderID < result[j].OrderID })
	return result, nil
}

func (r memoryArchive) TotalSales(ctx context.Context) (decimal.Decimal, error) {
	if err := r.s.fail("archive.total"); err != nil {
		return decimal.Zero, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, order := range r.s.Archived {
		total = total.Add(order.TotalPrice)
	}
	return total, nil
}

func (r memoryArchive) Truncate(ctx context.Context) error {
	if err := r.s.fail("archive.truncate"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Archived = make(map[int64]model.ArchivedOrder)
	return nil
}

type memoryMenu struct{ s *MemoryStore }

func (r memoryMenu) Lookup(ctx context.Context, itemIDs []int64) (map[int64]model.MenuItem, error) {
	if err := r.s.fail("menu.lookup"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make(map[int64]model.MenuItem, len(itemIDs))
	for _, id := range itemIDs {
		if item, ok := r.s.MenuItems[id]; ok {
			result[id] = item
		}
	}
	return result, nil
}

func (r memoryMenu) List(ctx context.Context) ([]model.MenuItem, error) {
	if err := r.s.fail("menu.list"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]model.MenuItem, 0, len(r.s.MenuItems))
	for _, item := range r.s.MenuItems {
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r memoryMenu) Create(ctx context.Context, item model.MenuItem) (*model.MenuItem, error) {
	if err := r.s.fail("menu.create"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item.ID = r.s.NextMenuID
	r.s.NextMenuID++
	r.s.MenuItems[item.ID] = item
	return &item, nil
}

func (r memoryMenu) Update(ctx context.Context, item model.MenuItem) error {
	if err := r.s.fail("menu.update"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.MenuItems[item.ID]; !ok {
		return domainErrors.ErrNotFound
	}
	r.s.MenuItems[item.ID] = item
	return nil
}

func (r memoryMenu) Delete(ctx context.Context, itemID int64) error {
	if err := r.s.fail("menu.delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.MenuItems[itemID]; !ok {
		return domainErrors.ErrNotFound
	}
	for _, items := range r.s.Items {
		for _, item := range items {
			if item.ItemID == itemID {
				return domainErrors.ErrMenuItemInUse
			}
		}
	}
	delete(r.s.MenuItems, itemID)
	return nil
}

type memorySettings struct{ s *MemoryStore }

func (r memorySettings) CanteenStatus(ctx context.Context) (model.CanteenStatus, error) {
	if err := r.s.fail("settings.get"); err != nil {
		return "", err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.Status, nil
}

func (r memorySettings) SetCanteenStatus(ctx context.Context, status model.CanteenStatus) error {
	if err := r.s.fail("settings.set"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Status = status
	return nil
}

var (
	_ repository.Factory    = (*MemoryStore)(nil)
	_ repository.Transactor = (*MemoryStore)(nil)
)
