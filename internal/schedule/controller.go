package schedule

import (
	"fmt"
	"sync"

	"github.com/mwoudenberg/aqualed/internal/logic"
	"github.com/mwoudenberg/aqualed/internal/store"
)

// Controller owns the schedule table and the override. The run loop reads
// it every tick and the HTTP layer mutates it, so all access goes through
// one mutex.
type Controller struct {
	mu    sync.Mutex
	table logic.Table
	ov    logic.Override
	st    store.Store
}

// NewController loads the persisted table from st. A load failure is fatal
// to startup.
func NewController(st store.Store) (*Controller, error) {
	rec, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	return &Controller{table: logic.Table(rec), st: st}, nil
}

// Replace parses text into a full table, installs it, cancels any active
// override and persists the table before returning. A save failure leaves
// the new table active in memory and is returned for reporting.
func (c *Controller) Replace(text string) error {
	t := ParseList(text)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = t
	c.ov = logic.Override{}
	if err := c.st.Save(store.Record(t)); err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	return nil
}

// SetOverride parses "<A>,<B>" and activates the override. Levels are not
// range-checked here; the output driver clamps at the hardware boundary.
func (c *Controller) SetOverride(text string) {
	c.mu.Lock()
	c.ov = ParseOverride(text, c.ov)
	c.mu.Unlock()
}

// Snapshot returns copies of the current table and override.
func (c *Controller) Snapshot() (logic.Table, logic.Override) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table, c.ov
}

// Dump returns the current table in the wire encoding.
func (c *Controller) Dump() string {
	c.mu.Lock()
	t := c.table
	c.mu.Unlock()
	return Dump(t)
}
