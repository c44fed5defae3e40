package Controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ozclean/cleaning-app/controllers"
	"github.com/ozclean/cleaning-app/mailer"
	"github.com/ozclean/cleaning-app/models"
	"github.com/ozclean/cleaning-app/utils"
)

func setupEnquiryRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Enquiry{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	dispatcher := mailer.NewDispatcher(silentSender{})
	t.Cleanup(dispatcher.Stop)

	ctrl := controllers.NewEnquiryController(db, dispatcher)
	router := gin.Default()
	router.POST("/enquiries", ctrl.CreateEnquiry)
	router.GET("/admin/enquiries", ctrl.GetAllEnquiries)
	router.PATCH("/admin/enquiries/:enquiry_id", ctrl.UpdateEnquiry)
	return router, db
}

func TestCreateEnquiry(t *testing.T) {
	router, db := setupEnquiryRouter(t)

	w := postJSON(router, "POST", "/enquiries", map[string]interface{}{
		"name":    "Jane Doe",
		"email":   "jane@example.com",
		"subject": "End of lease clean",
		"message": "Do you cover the Northern Beaches?",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var enquiry models.Enquiry
	assert.NoError(t, db.First(&enquiry).Error)
	assert.Equal(t, models.EnquiryStatusNew, enquiry.Status)
}

func TestCreateEnquiryRequiresMessage(t *testing.T) {
	router, _ := setupEnquiryRouter(t)

	w := postJSON(router, "POST", "/enquiries", map[string]interface{}{
		"name":  "Jane Doe",
		"email": "jane@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateEnquiryStatus(t *testing.T) {
	router, db := setupEnquiryRouter(t)

	enquiry := models.Enquiry{
		Name: "Jane Doe", Email: "jane@example.com",
		Message: "Quote please", Status: models.EnquiryStatusNew,
	}
	db.Create(&enquiry)

	w := postJSON(router, "PATCH", fmt.Sprintf("/admin/enquiries/%d", enquiry.ID), map[string]interface{}{
		"status":         models.EnquiryStatusContacted,
		"internal_notes": "Called back, waiting on photos",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Enquiry
	db.First(&updated, enquiry.ID)
	assert.Equal(t, models.EnquiryStatusContacted, updated.Status)
	assert.Equal(t, "Called back, waiting on photos", updated.InternalNotes)

	w = postJSON(router, "PATCH", fmt.Sprintf("/admin/enquiries/%d", enquiry.ID), map[string]interface{}{
		"status": "archived",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAllEnquiriesFilterByStatus(t *testing.T) {
	router, db := setupEnquiryRouter(t)

	db.Create(&models.Enquiry{Name: "A", Email: "a@example.com", Message: "m", Status: models.EnquiryStatusNew})
	db.Create(&models.Enquiry{Name: "B", Email: "b@example.com", Message: "m", Status: models.EnquiryStatusClosed})

	w := postJSON(router, "GET", "/admin/enquiries?status="+models.EnquiryStatusClosed, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Enquiry `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if assert.Len(t, resp.Data, 1) {
		assert.Equal(t, "B", resp.Data[0].Name)
	}
}
