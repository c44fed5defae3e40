package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/ozclean/cleaning-app/models"
	"github.com/ozclean/cleaning-app/realtime"
)

// ChangeMonitor polls the db_changes feed written by database triggers and
// turns unprocessed rows into realtime events. It covers writes that do
// not pass through this process (direct SQL, other services).
type ChangeMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DBChange

	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		log.Printf("Error fetching changes: %v", err)
		return
	}

	touched := make(map[string]bool)
	for _, change := range changes {
		switch change.TableName {
		case "bookings":
			cm.processBookingChange(change)
		case "cms_enquiries":
			cm.processEnquiryChange(change)
		}
		touched[change.TableName] = true

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			log.Printf("Error marking change as processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing change batch: %v", err)
		tx.Rollback()
		return
	}

	if len(changes) > 0 {
		// Admin dashboards re-fetch their stats on this signal.
		tables := make([]string, 0, len(touched))
		for table := range touched {
			tables = append(tables, table)
		}
		realtime.BroadcastDashboardUpdate(map[string]interface{}{"tables": tables})
		log.Printf("Processed %d change feed rows", len(changes))
	}
}

func (cm *ChangeMonitor) processBookingChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		realtime.BroadcastBookingDelete(models.Booking{ID: uint(change.RecordID)})
		return
	}

	var booking models.Booking
	if err := cm.DB.First(&booking, change.RecordID).Error; err != nil {
		log.Printf("Error fetching booking %d: %v", change.RecordID, err)
		return
	}

	if change.ActionType == "INSERT" {
		realtime.BroadcastBookingInsert(booking)
	} else {
		realtime.BroadcastBookingUpdate(booking)
	}
}

func (cm *ChangeMonitor) processEnquiryChange(change models.DBChange) {
	if change.ActionType != "INSERT" {
		return
	}

	var enquiry models.Enquiry
	if err := cm.DB.First(&enquiry, change.RecordID).Error; err != nil {
		log.Printf("Error fetching enquiry %d: %v", change.RecordID, err)
		return
	}
	realtime.BroadcastEnquiryNew(enquiry)
}
