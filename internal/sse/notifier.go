package sse

import "time"

// SubmissionNotifier is the interface services use to emit submission and
// grading events to instructor dashboards.
type SubmissionNotifier interface {
	NotifySubmissionCompleted(teamID, roundID int, productIDs []string)
	NotifySubmissionPartialFailure(teamID, roundID int, failedProducts []string)
	NotifyResultsImported(roundID int)
}

// HubNotifier implements SubmissionNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifySubmissionCompleted(teamID, roundID int, productIDs []string) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&SubmissionEvent{
		Event:      EventSubmissionCompleted,
		TeamID:     teamID,
		RoundID:    roundID,
		ProductIDs: productIDs,
		Timestamp:  time.Now(),
	})
}

func (n *HubNotifier) NotifySubmissionPartialFailure(teamID, roundID int, failedProducts []string) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&SubmissionEvent{
		Event:          EventSubmissionPartialFailure,
		TeamID:         teamID,
		RoundID:        roundID,
		FailedProducts: failedProducts,
		Timestamp:      time.Now(),
	})
}

func (n *HubNotifier) NotifyResultsImported(roundID int) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&SubmissionEvent{
		Event:     EventResultsImported,
		RoundID:   roundID,
		Timestamp: time.Now(),
	})
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (n *NopNotifier) NotifySubmissionCompleted(teamID, roundID int, productIDs []string)  {}
func (n *NopNotifier) NotifySubmissionPartialFailure(teamID, roundID int, failed []string) {}
func (n *NopNotifier) NotifyResultsImported(roundID int)                                   {}
