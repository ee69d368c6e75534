package panel

import (
	"context"
	"fmt"

	"github.com/devicelab-dev/exploration-panel/pkg/core"
	"github.com/devicelab-dev/exploration-panel/pkg/logger"
	"github.com/devicelab-dev/exploration-panel/pkg/view"
)

// MatchFunc selects explorations client-side.
type MatchFunc func(e core.Exploration) (bool, error)

// LoadList fetches every saved exploration and renders the table.
func (c *Controller) LoadList(ctx context.Context) ([]core.Exploration, error) {
	return c.LoadListWhere(ctx, nil)
}

// LoadListWhere is LoadList with a client-side filter applied before rendering.
func (c *Controller) LoadListWhere(ctx context.Context, match MatchFunc) ([]core.Exploration, error) {
	c.mu.Lock()
	c.listSeq++
	seq := c.listSeq
	c.mu.Unlock()

	c.beginLoading(msgLoadingList)
	list, err := c.svc.ListExplorations(ctx)
	c.endLoading()

	if err == nil && match != nil {
		list, err = filterExplorations(list, match)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.listSeq {
		logger.Debug("load list: newer request in flight, discarding response")
		return nil, core.ErrStaleResponse
	}
	if err != nil {
		c.notify(view.LevelError, msgListError+err.Error())
		return nil, err
	}
	if len(list) == 0 {
		c.notify(view.LevelInfo, msgNoExplorations)
		return nil, nil
	}

	c.list = list
	c.view.List.SetRows(list)
	if c.view.ActivePanel() != view.PanelDetail {
		c.view.ShowPanel(view.PanelList)
	}
	logger.Info("loaded %d explorations", len(list))
	return append([]core.Exploration(nil), list...), nil
}

func filterExplorations(list []core.Exploration, match MatchFunc) ([]core.Exploration, error) {
	var out []core.Exploration
	for _, e := range list {
		ok, err := match(e)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", e.ID, err)
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// DeleteExploration deletes an exploration after confirmation and removes
// its row. The row is kept unless the service reports success.
func (c *Controller) DeleteExploration(ctx context.Context, id string) error {
	if !c.confirm.Confirm(ctx, msgConfirmDelete) {
		logger.Info("delete %s cancelled", id)
		return core.ErrCancelled
	}

	c.beginLoading(msgDeleting)
	resp, err := c.svc.DeleteExploration(ctx, id)
	c.endLoading()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.notify(view.LevelError, msgDeleteError+err.Error())
		return err
	}
	if resp.Status != "success" {
		detail := resp.Message
		if detail == "" {
			detail = fmt.Sprintf("status %q", resp.Status)
		}
		c.notify(view.LevelError, msgDeleteError+detail)
		return core.ErrUnexpectedStatus.WithMessage(detail)
	}

	c.view.List.RemoveRow(id)
	for i, e := range c.list {
		if e.ID == id {
			c.list = append(c.list[:i], c.list[i+1:]...)
			break
		}
	}
	if c.session.Exploration != nil && c.session.Exploration.ID == id {
		c.closeDetails()
	}
	c.notify(view.LevelSuccess, msgDeleted)

	if c.view.List.Len() == 0 {
		c.view.List.Container.Hide()
		c.view.Form.Show()
		c.notify(view.LevelInfo, msgNoMore)
	}
	return nil
}

// OpenExploration loads one exploration and makes it the selection.
func (c *Controller) OpenExploration(ctx context.Context, id string) (*core.Exploration, error) {
	c.mu.Lock()
	c.epoch++
	epoch := c.epoch
	c.mu.Unlock()

	c.beginLoading(msgLoadingDetails)
	e, err := c.svc.GetExploration(ctx, id)
	c.endLoading()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stale(epoch, "open "+id) {
		return nil, core.ErrStaleResponse
	}
	if err != nil {
		c.notify(view.LevelError, msgDetailsError+err.Error())
		return nil, err
	}

	c.session = newSession(e)
	c.view.Cases.Clear()
	c.view.Detail.Fill(e)
	c.view.ShowPanel(view.PanelDetail)

	out := *e
	return &out, nil
}

// CloseDetails clears the selection and returns to the list.
func (c *Controller) CloseDetails() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeDetails()
}

func (c *Controller) closeDetails() {
	c.epoch++
	c.session = newSession(nil)
	c.view.Detail.Clear()
	c.view.Cases.Clear()
	c.view.ShowPanel(view.PanelList)
}
