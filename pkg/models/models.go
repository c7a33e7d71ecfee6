package models

// API row shapes for the hosted backend. Field names follow the
// backend's column names, so JSON tags are snake_case throughout.

type Restaurant struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Cuisine     string   `json:"cuisine"`
	DeliveryFee *float64 `json:"delivery_fee,omitempty"`
	AvgMinutes  *int     `json:"avg_minutes,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

type MenuItem struct {
	ID           string  `json:"id"`
	RestaurantID string  `json:"restaurant_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price"`
	ImageURL     *string `json:"image_url,omitempty"`
	Category     *string `json:"category,omitempty"`
}

// OrderItem is a frozen snapshot of a cart line taken at checkout.
// It deliberately copies name and price so later menu edits cannot
// change what a historical order says it cost.
type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Note     string  `json:"note,omitempty"`
}

type OrderCreate struct {
	UID     string      `json:"uid"`
	Items   []OrderItem `json:"items"`
	Total   float64     `json:"total"`
	Address string      `json:"address"`
	Status  string      `json:"status"`
}

type OrderResponse struct {
	ID        string      `json:"id"`
	UID       string      `json:"uid"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Address   string      `json:"address"`
	Status    string      `json:"status"`
	CreatedAt string      `json:"created_at"`
}

// UserRow is the profile row in public.users, upserted with
// merge-on-conflict semantics keyed by id.
type UserRow struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	WalletBalance  *float64 `json:"wallet_balance,omitempty"`
	Points         *int     `json:"points,omitempty"`
	DefaultAddress *string  `json:"default_address,omitempty"`
	PushToken      *string  `json:"fcm_token,omitempty"`
}

// Auth endpoint bodies.

type EmailPassword struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
}

type UserResponse struct {
	ID string `json:"id"`
}
