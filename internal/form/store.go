// Package form holds the label form's state and the two flows that touch
// the bridge: printer discovery at start and label submission.
//
// Every submission takes a fresh sequence token. Outcomes carry their token
// and the store keeps only the outcome of the latest submission, so a slow
// earlier request can never overwrite the status of a later one.
package form

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

var ErrSubmissionPending = errors.New("a submission is already in progress")

// Snapshot is an immutable copy of the form fields.
type Snapshot struct {
	Version  model.ProtocolVersion `json:"version"`
	Printer  string                `json:"printer"`
	Printers []string              `json:"printers"`
	Title    string                `json:"title"`
	Products []model.ProductEntry  `json:"products"`
	Status   model.Outcome         `json:"status"`
}

type Store struct {
	mu sync.Mutex

	version  model.ProtocolVersion
	printer  string
	printers []string
	title    string
	products []model.ProductEntry

	status model.Outcome
	seq    uint64

	now func() time.Time
}

// NewStore returns a store for version with defaultPrinter selected. Fixed
// slot versions start with that many empty product slots.
func NewStore(version model.ProtocolVersion, defaultPrinter string) *Store {
	s := &Store{
		version: version,
		printer: defaultPrinter,
		status:  model.Outcome{State: model.StateIdle},
		now:     time.Now,
	}
	s.products = make([]model.ProductEntry, version.SlotCount())
	return s
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Version:  s.version,
		Printer:  s.printer,
		Printers: slices.Clone(s.printers),
		Title:    s.title,
		Products: slices.Clone(s.products),
		Status:   s.status,
	}
}

func (s *Store) Printer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.printer
}

func (s *Store) SetPrinter(name string) {
	s.mu.Lock()
	s.printer = name
	s.mu.Unlock()
}

func (s *Store) SetTitle(title string) {
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()
}

// SetVersion switches the request shape. Fixed-slot versions resize the
// product list to their slot count, keeping existing entries.
func (s *Store) SetVersion(v model.ProtocolVersion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version = v
	if n := v.SlotCount(); n > 0 {
		s.products = resize(s.products, n)
	}
}

// SetProducts replaces the product list. Under a fixed-slot version the
// list is still stored as given; building the request checks the count.
func (s *Store) SetProducts(products []model.ProductEntry) {
	s.mu.Lock()
	s.products = slices.Clone(products)
	s.mu.Unlock()
}

// SetProduct writes one slot, growing the list when i is past its end. A
// negative i is ignored.
func (s *Store) SetProduct(i int, p model.ProductEntry) {
	if i < 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i >= len(s.products) {
		s.products = resize(s.products, i+1)
	}
	s.products[i] = p
}

// applyDiscovery records the discovered printers and keeps the selection
// only if it is among them.
func (s *Store) applyDiscovery(printers []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.printers = slices.Clone(printers)
	if !slices.Contains(printers, s.printer) {
		s.printer = printers[0]
	}
}

// begin issues the next sequence token and marks the form as submitting.
// With exclusive set it refuses while another submission is outstanding.
func (s *Store) begin(exclusive bool) (uint64, Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if exclusive && s.status.State == model.StateSubmitting {
		return 0, Snapshot{}, ErrSubmissionPending
	}
	s.seq++
	s.status = model.Outcome{Seq: s.seq, State: model.StateSubmitting, At: s.now()}
	snap := Snapshot{
		Version:  s.version,
		Printer:  s.printer,
		Title:    s.title,
		Products: slices.Clone(s.products),
		Status:   s.status,
	}
	return s.seq, snap, nil
}

// complete stamps o and stores it if it belongs to the latest submission.
// The bool reports whether it did.
func (s *Store) complete(o model.Outcome) (model.Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.At = s.now()
	if o.Seq != s.seq {
		return o, false
	}
	s.status = o
	return o, true
}

func resize(products []model.ProductEntry, n int) []model.ProductEntry {
	out := make([]model.ProductEntry, n)
	copy(out, products)
	return out
}
