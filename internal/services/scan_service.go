package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thankiuday/Phygital-sub005/internal/database/repository"
	"github.com/thankiuday/Phygital-sub005/internal/models"
)

// ScanService records scan events. Recording is best effort via the queue:
// a broker outage degrades to a warning, never a failed redirect.
type ScanService struct {
	scanRepo *repository.ScanEventRepository
	rabbitmq *RabbitMQService
	stopChan chan struct{}
}

func NewScanService(scanRepo *repository.ScanEventRepository, rabbitmq *RabbitMQService) *ScanService {
	return &ScanService{
		scanRepo: scanRepo,
		rabbitmq: rabbitmq,
		stopChan: make(chan struct{}),
	}
}

// RecordScan publishes a scan event for a campaign. When no broker is
// configured the event is persisted inline instead.
func (s *ScanService) RecordScan(campaignID, clientIP, userAgent, referer string) {
	event := &models.ScanEvent{
		CampaignID: campaignID,
		OccurredAt: time.Now(),
		ClientIP:   clientIP,
		UserAgent:  userAgent,
		Referer:    referer,
	}

	if s.rabbitmq == nil {
		if err := s.scanRepo.Create(event); err != nil {
			logrus.Warnf("Failed to persist scan event for campaign %s: %v", campaignID, err)
		}
		return
	}

	message := map[string]interface{}{
		"campaign_id": event.CampaignID,
		"occurred_at": event.OccurredAt.Format(time.RFC3339Nano),
		"client_ip":   event.ClientIP,
		"user_agent":  event.UserAgent,
		"referer":     event.Referer,
	}
	if err := s.rabbitmq.PublishMessage(ScanEventsQueue, message); err != nil {
		logrus.Warnf("Failed to publish scan event for campaign %s: %v", campaignID, err)
	}
}

// StartConsumer starts the goroutine that drains the scan queue into the
// database. It is a no-op without a broker.
func (s *ScanService) StartConsumer() error {
	if s.rabbitmq == nil {
		return nil
	}

	deliveries, err := s.rabbitmq.Consume(ScanEventsQueue)
	if err != nil {
		return fmt.Errorf("failed to start scan consumer: %w", err)
	}

	go func() {
		for {
			select {
			case delivery, ok := <-deliveries:
				if !ok {
					return
				}
				if err := s.persistDelivery(delivery.Body); err != nil {
					logrus.Errorf("Failed to persist scan event: %v", err)
					delivery.Nack(false, false)
					continue
				}
				delivery.Ack(false)
			case <-s.stopChan:
				return
			}
		}
	}()

	logrus.Info("Scan event consumer started")
	return nil
}

// Stop stops the consumer goroutine
func (s *ScanService) Stop() {
	close(s.stopChan)
}

func (s *ScanService) persistDelivery(body []byte) error {
	var message struct {
		CampaignID string `json:"campaign_id"`
		OccurredAt string `json:"occurred_at"`
		ClientIP   string `json:"client_ip"`
		UserAgent  string `json:"user_agent"`
		Referer    string `json:"referer"`
	}
	if err := json.Unmarshal(body, &message); err != nil {
		return fmt.Errorf("failed to decode scan event: %w", err)
	}

	occurredAt, err := time.Parse(time.RFC3339Nano, message.OccurredAt)
	if err != nil {
		occurredAt = time.Now()
	}

	return s.scanRepo.Create(&models.ScanEvent{
		CampaignID: message.CampaignID,
		OccurredAt: occurredAt,
		ClientIP:   message.ClientIP,
		UserAgent:  message.UserAgent,
		Referer:    message.Referer,
	})
}

// GetScans returns a campaign's scan events, newest first
func (s *ScanService) GetScans(campaignID string, page, pageSize int) ([]*models.ScanEvent, int64, error) {
	return s.scanRepo.GetByCampaignID(campaignID, page, pageSize)
}

// GetStats summarizes a campaign's scans
func (s *ScanService) GetStats(campaignID string) (*models.ScanStatsResponse, error) {
	return s.scanRepo.Stats(campaignID)
}
