package dto

import (
	"time"

	"interest-match/internal/domain/interest"
)

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type InterestResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
}

type UserInterestResponse struct {
	ID           int64     `json:"id"`
	InterestID   int64     `json:"interest_id"`
	InterestName string    `json:"interest_name"`
	CategoryID   int64     `json:"category_id"`
	CategoryName string    `json:"category_name"`
	CreatedAt    time.Time `json:"created_at"`
}

type CategoryImportanceResponse struct {
	ID           int64     `json:"id"`
	CategoryID   int64     `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Importance   int       `json:"importance"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type BatchImportanceResponse struct {
	Created []CategoryImportanceResponse `json:"created"`
	Updated []CategoryImportanceResponse `json:"updated"`
}

type RemovedInterestsResponse struct {
	Removed int64 `json:"removed"`
}

func NewCategoryResponses(items []interest.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(items))
	for _, it := range items {
		out = append(out, CategoryResponse{ID: it.ID, Name: it.Name})
	}
	return out
}

func NewInterestResponses(items []interest.Interest) []InterestResponse {
	out := make([]InterestResponse, 0, len(items))
	for _, it := range items {
		out = append(out, InterestResponse{
			ID:           it.ID,
			Name:         it.Name,
			CategoryID:   it.CategoryID,
			CategoryName: it.CategoryName,
		})
	}
	return out
}

func NewUserInterestResponse(it interest.UserInterest) UserInterestResponse {
	return UserInterestResponse{
		ID:           it.ID,
		InterestID:   it.InterestID,
		InterestName: it.InterestName,
		CategoryID:   it.CategoryID,
		CategoryName: it.CategoryName,
		CreatedAt:    it.CreatedAt,
	}
}

func NewUserInterestResponses(items []interest.UserInterest) []UserInterestResponse {
	out := make([]UserInterestResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewUserInterestResponse(it))
	}
	return out
}

func NewCategoryImportanceResponse(ci interest.CategoryImportance) CategoryImportanceResponse {
	return CategoryImportanceResponse{
		ID:           ci.ID,
		CategoryID:   ci.CategoryID,
		CategoryName: ci.CategoryName,
		Importance:   ci.Importance,
		CreatedAt:    ci.CreatedAt,
		UpdatedAt:    ci.UpdatedAt,
	}
}

func NewCategoryImportanceResponses(items []interest.CategoryImportance) []CategoryImportanceResponse {
	out := make([]CategoryImportanceResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewCategoryImportanceResponse(it))
	}
	return out
}
