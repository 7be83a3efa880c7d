package logview

import (
	"context"
	"fmt"

	"github.com/llmwatch/console/internal/core"
)

// Page holds the cards for one loaded page of log records. A new page fully
// replaces the previous one; card state never survives a reload.
type Page struct {
	client core.Client
	cards  []*Card
	byID   map[int64]*Card
}

// NewPage builds cards for a page of records, preserving their order.
func NewPage(client core.Client, records []core.LogRecord) *Page {
	p := &Page{
		client: client,
		cards:  make([]*Card, 0, len(records)),
		byID:   make(map[int64]*Card, len(records)),
	}
	for _, rec := range records {
		card := NewCard(rec)
		p.cards = append(p.cards, card)
		p.byID[rec.ID] = card
	}
	return p
}

// Cards returns the page's cards in record order.
func (p *Page) Cards() []*Card {
	return p.cards
}

// Card looks a card up by its record id.
func (p *Page) Card(id int64) (*Card, bool) {
	card, ok := p.byID[id]
	return card, ok
}

// SelectTab applies a tab selection to one card and returns its pane. The
// detections tab suspends on the secondary fetch before rendering.
func (p *Page) SelectTab(ctx context.Context, id int64, tab PrimaryTab) (Pane, error) {
	card, ok := p.byID[id]
	if !ok {
		return Pane{}, fmt.Errorf("no card for record %d", id)
	}

	needsFetch, err := card.SelectPrimary(tab)
	if err != nil {
		return Pane{}, err
	}
	if needsFetch {
		card.FetchDetections(ctx, p.client)
	}
	return card.Pane(), nil
}

// SelectSubTab applies a sub-tab selection to one card and returns its pane.
func (p *Page) SelectSubTab(id int64, sub SubTab) (Pane, error) {
	card, ok := p.byID[id]
	if !ok {
		return Pane{}, fmt.Errorf("no card for record %d", id)
	}
	if err := card.SelectSub(sub); err != nil {
		return Pane{}, err
	}
	return card.Pane(), nil
}
