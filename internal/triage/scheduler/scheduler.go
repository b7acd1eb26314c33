package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	authrepo "pulseboard-backend/internal/auth/repository"
	connrepo "pulseboard-backend/internal/connection/repository"
	"pulseboard-backend/internal/triage/usecase"
	"pulseboard-backend/pkg/fcm"
)

// SyncScheduler periodically runs the triage sync for every connected user
// and pushes a digest notification when new items landed in the queue.
type SyncScheduler struct {
	triageUsecase usecase.TriageUsecase
	connections   connrepo.ConnectionRepository
	fcmRepo       authrepo.FCMTokenRepository
	fcmClient     *fcm.Client
	interval      time.Duration
	stopChan      chan struct{}
}

func NewSyncScheduler(
	triageUsecase usecase.TriageUsecase,
	connections connrepo.ConnectionRepository,
	fcmRepo authrepo.FCMTokenRepository,
	fcmClient *fcm.Client,
	interval time.Duration,
) *SyncScheduler {
	return &SyncScheduler{
		triageUsecase: triageUsecase,
		connections:   connections,
		fcmRepo:       fcmRepo,
		fcmClient:     fcmClient,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *SyncScheduler) Start() {
	log.Printf("[SyncScheduler] Starting triage sync scheduler (interval: %s)", s.interval)

	go func() {
		// Run immediately on start
		s.runAll()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runAll()
			case <-s.stopChan:
				log.Println("[SyncScheduler] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *SyncScheduler) Stop() {
	close(s.stopChan)
}

func (s *SyncScheduler) runAll() {
	userIDs, err := s.connections.ListConnectedUserIDs()
	if err != nil {
		log.Printf("[SyncScheduler] Error listing connected users: %v", err)
		return
	}
	if len(userIDs) == 0 {
		return
	}

	log.Printf("[SyncScheduler] Running scheduled sync for %d users", len(userIDs))

	for _, userID := range userIDs {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		result := s.triageUsecase.RunTriageSync(ctx, userID)
		cancel()

		for _, e := range result.Errors {
			log.Printf("[SyncScheduler] user %s: %s", userID, e)
		}

		if result.Added > 0 {
			s.sendDigest(userID, result.Added)
		}
	}
}

// sendDigest pushes a "new items to review" notification to the user's devices.
func (s *SyncScheduler) sendDigest(userID string, added int) {
	if s.fcmClient == nil {
		return
	}

	tokens, err := s.fcmRepo.GetTokensByUserID(userID)
	if err != nil {
		log.Printf("[SyncScheduler] Error getting FCM tokens for user %s: %v", userID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	var tokenStrings []string
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	body := fmt.Sprintf("%d new items are waiting in your triage queue", added)
	if added == 1 {
		body = "1 new item is waiting in your triage queue"
	}

	notification := fcm.NotificationData{
		Title: "Triage queue updated",
		Body:  body,
		Data: map[string]string{
			"type":         "triage_update",
			"added":        fmt.Sprintf("%d", added),
			"click_action": "/triage",
		},
	}

	failedTokens, err := s.fcmClient.SendToDevices(context.Background(), tokenStrings, notification)
	if err != nil {
		log.Printf("[SyncScheduler] Error sending digest to user %s: %v", userID, err)
		return
	}

	// Cleanup failed tokens
	for _, token := range failedTokens {
		s.fcmRepo.DeleteToken(token)
	}
}
