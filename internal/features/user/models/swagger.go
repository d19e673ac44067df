package models

// UsersResponse is the result of a user search.
type UsersResponse struct {
	Items []UserProfile `json:"items"`
	Total int           `json:"total" example:"5"`
}
