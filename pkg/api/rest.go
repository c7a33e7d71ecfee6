package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/example/quickbite/pkg/models"
)

// Row-CRUD operations. PostgREST filters are query parameters of the
// form column=eq.value; list ordering is requested with
// order=column.direction and field selection with select=.

func (c *Client) restURL(table string, params url.Values) string {
	u := c.restBase + "/" + url.PathEscape(table)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (c *Client) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	params := url.Values{"select": {"*"}}
	var rows []models.Restaurant
	if err := c.do(ctx, http.MethodGet, c.restURL("restaurants", params), nil, &rows, nil); err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	return rows, nil
}

func (c *Client) ListMenu(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	params := url.Values{
		"select":        {"*"},
		"restaurant_id": {"eq." + restaurantID},
	}
	var rows []models.MenuItem
	if err := c.do(ctx, http.MethodGet, c.restURL("menu", params), nil, &rows, nil); err != nil {
		return nil, fmt.Errorf("failed to list menu for restaurant %s: %w", restaurantID, err)
	}
	return rows, nil
}

// CreateOrder inserts an order row and returns the inserted row as the
// backend stored it. The returned status is normalized onto the
// canonical vocabulary here, so no caller compares raw strings.
func (c *Client) CreateOrder(ctx context.Context, order models.OrderCreate) (*models.OrderResponse, error) {
	headers := map[string]string{"Prefer": "return=representation"}
	var rows []models.OrderResponse
	if err := c.do(ctx, http.MethodPost, c.restURL("orders", nil), order, &rows, headers); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no order returned by backend")
	}
	inserted := rows[0]
	inserted.Status = models.NormalizeStatus(inserted.Status)
	return &inserted, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*models.OrderResponse, error) {
	params := url.Values{
		"select": {"*"},
		"id":     {"eq." + id},
	}
	var rows []models.OrderResponse
	if err := c.do(ctx, http.MethodGet, c.restURL("orders", params), nil, &rows, nil); err != nil {
		return nil, fmt.Errorf("failed to fetch order %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	order := rows[0]
	order.Status = models.NormalizeStatus(order.Status)
	return &order, nil
}

func (c *Client) ListOrdersByUser(ctx context.Context, uid string) ([]models.OrderResponse, error) {
	params := url.Values{
		"select": {"*"},
		"uid":    {"eq." + uid},
		"order":  {"created_at.desc"},
	}
	var rows []models.OrderResponse
	if err := c.do(ctx, http.MethodGet, c.restURL("orders", params), nil, &rows, nil); err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", uid, err)
	}
	for i := range rows {
		rows[i].Status = models.NormalizeStatus(rows[i].Status)
	}
	return rows, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*models.UserRow, error) {
	params := url.Values{
		"select": {"*"},
		"id":     {"eq." + id},
	}
	var rows []models.UserRow
	if err := c.do(ctx, http.MethodGet, c.restURL("users", params), nil, &rows, nil); err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// UpsertUsers inserts-or-merges profile rows keyed by id, relying on
// the backend's merge-duplicates resolution.
func (c *Client) UpsertUsers(ctx context.Context, rows []models.UserRow) ([]models.UserRow, error) {
	params := url.Values{"on_conflict": {"id"}}
	headers := map[string]string{
		"Prefer": "return=representation,resolution=merge-duplicates",
	}
	var out []models.UserRow
	if err := c.do(ctx, http.MethodPost, c.restURL("users", params), rows, &out, headers); err != nil {
		return nil, fmt.Errorf("failed to upsert users: %w", err)
	}
	return out, nil
}
