package handlers

import "github.com/Pranav452/delivery/internal/domain"

type runAssignmentRequest struct {
	OrderID domain.OrderKey `json:"orderId" validate:"required"`
}

type assignResponse struct {
	Success   bool   `json:"success"`
	PartnerID string `json:"partnerId,omitempty"`
	Error     string `json:"error,omitempty"`
}

type failureReasonDTO struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

type metricsDTO struct {
	TotalAssigned  int                `json:"totalAssigned"`
	SuccessRate    float64            `json:"successRate"`
	AverageTime    float64            `json:"averageTime"`
	FailureReasons []failureReasonDTO `json:"failureReasons"`
}

type metricsResponse struct {
	Metrics metricsDTO `json:"metrics"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=picked delivered cancelled canceled"`
}

type transitionResponse struct {
	OrderID   string `json:"orderId"`
	From      string `json:"from"`
	To        string `json:"to"`
	PartnerID string `json:"partnerId,omitempty"`
	Released  bool   `json:"released"`
}
