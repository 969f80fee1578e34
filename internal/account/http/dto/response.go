// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	accountDomain "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/usecase"
)

// UserResponse represents an account in API responses. Credential material
// is never serialized.
type UserResponse struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	FirstName     string    `json:"firstname"`
	LastName      string    `json:"lastname"`
	Phone         string    `json:"phone,omitempty"`
	Role          string    `json:"role"`
	Status        string    `json:"accountStatus"`
	EmailVerified bool      `json:"emailVerified"`
	PhoneVerified bool      `json:"phoneVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// MapAccountToResponse converts a domain account to an API response.
func MapAccountToResponse(account *accountDomain.Account) UserResponse {
	return UserResponse{
		ID:            account.ID,
		Email:         account.Email,
		Username:      account.Username,
		FirstName:     account.FirstName,
		LastName:      account.LastName,
		Phone:         account.Phone,
		Role:          account.Role.String(),
		Status:        string(account.Status),
		EmailVerified: account.EmailVerified,
		PhoneVerified: account.PhoneVerified,
		CreatedAt:     account.CreatedAt,
		UpdatedAt:     account.UpdatedAt,
	}
}

// PaginationResponse is the paging envelope for list and search results.
type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalUsers int64 `json:"totalUsers"`
	TotalPages int   `json:"totalPages"`
}

// ListUsersResponse represents a paginated list of accounts.
type ListUsersResponse struct {
	Users      []UserResponse     `json:"users"`
	Pagination PaginationResponse `json:"pagination"`
}

// MapPageToListResponse converts a usecase page to a list API response.
func MapPageToListResponse(page *usecase.Page) ListUsersResponse {
	users := make([]UserResponse, 0, len(page.Accounts))
	for _, account := range page.Accounts {
		users = append(users, MapAccountToResponse(account))
	}
	return ListUsersResponse{
		Users: users,
		Pagination: PaginationResponse{
			Page:       page.Page,
			Limit:      page.Limit,
			TotalUsers: page.TotalCount,
			TotalPages: page.TotalPages,
		},
	}
}

// DashboardStatsResponse aggregates account statistics for the admin dashboard.
type DashboardStatsResponse struct {
	TotalUsers    int64            `json:"totalUsers"`
	ByStatus      map[string]int64 `json:"byStatus"`
	ByRole        map[string]int64 `json:"byRole"`
	EmailVerified int64            `json:"emailVerified"`
	RecentUsers   int64            `json:"recentUsers"`
}

// MapCountsToDashboardResponse converts dashboard counts to an API response.
func MapCountsToDashboardResponse(counts *accountDomain.DashboardCounts) DashboardStatsResponse {
	byStatus := make(map[string]int64, len(counts.ByStatus))
	for status, count := range counts.ByStatus {
		byStatus[string(status)] = count
	}
	byRole := make(map[string]int64, len(counts.ByRole))
	for role, count := range counts.ByRole {
		byRole[role.String()] = count
	}
	return DashboardStatsResponse{
		TotalUsers:    counts.TotalAccounts,
		ByStatus:      byStatus,
		ByRole:        byRole,
		EmailVerified: counts.EmailVerified,
		RecentUsers:   counts.RecentAccounts,
	}
}
