package app

import (
	"sync"
	"time"

	"github.com/Alexeya-png/fitness-tracker-git/internal/domain"
)

// Clock reports the current calendar day. Each user may shift their own day
// forward by a number of simulated days without affecting anyone else.
type Clock struct {
	mu      sync.Mutex
	loc     *time.Location
	offsets map[int64]int
	now     func() time.Time
}

// NewClock creates a Clock for loc. A nil loc uses time.Local.
func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.Local
	}
	return &Clock{loc: loc, offsets: make(map[int64]int), now: time.Now}
}

// Today returns userID's current day as YYYY-MM-DD.
func (c *Clock) Today(userID int64) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.today(userID)
}

// Offset returns the number of simulated days for userID.
func (c *Clock) Offset(userID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offsets[userID]
}

// Advance moves userID's day one forward and returns the new day.
func (c *Clock) Advance(userID int64) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offsets[userID]++
	return c.today(userID)
}

// Reset clears userID's simulated offset.
func (c *Clock) Reset(userID int64) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.offsets, userID)
	return c.today(userID)
}

func (c *Clock) today(userID int64) string {
	return domain.FormatDay(c.now().In(c.loc).AddDate(0, 0, c.offsets[userID]))
}
