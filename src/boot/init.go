package boot

import (
	"log"
	"rsb/src/common"
	"rsb/src/db"
	"rsb/src/lib"
	"rsb/src/models"
	"time"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.Seat{},
		&models.Request{},
		&models.Payment{},
		&models.Setting{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler starts the background jobs. Expired reset codes are swept
// hourly so stale OTP hashes do not linger on user rows.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	id, err := lib.CreateCronJob(PurgeExpiredResetOTPs, time.Hour)
	if err != nil {
		log.Printf("Error scheduling OTP purge job: %s\n", err.Error())
		return
	}
	log.Printf("Scheduled OTP purge job: %s\n", *id)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
	}
}

func PurgeExpiredResetOTPs() {
	db := db.GetDb()
	res := db.
		Model(&models.User{}).
		Where("reset_password_otp_expiry < ?", time.Now()).
		Updates(map[string]any{
			"reset_password_otp":        nil,
			"reset_password_otp_expiry": nil,
		})
	if res.Error != nil {
		log.Printf("Error purging expired reset codes: %s\n", res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Purged %d expired reset codes\n", res.RowsAffected)
	}
}

func InitBroker() {
	go common.EmailsToSendConsumer()
}
