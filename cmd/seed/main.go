package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/ikkim/vendortrust-backend/config"
	"github.com/ikkim/vendortrust-backend/internal/app/model"
	"github.com/ikkim/vendortrust-backend/internal/app/repository"
	"github.com/ikkim/vendortrust-backend/internal/app/service"
	"github.com/ikkim/vendortrust-backend/internal/db"
	"github.com/ikkim/vendortrust-backend/pkg/util"
	"gorm.io/gorm"
)

// 개발 환경용 계정 시드
// 관리자 한 명과 데모 판매자 한 명을 생성하고, 판매자의 검증 레코드를 초기화함

func main() {
	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	vendorRepo := repository.NewVendorVerificationRepository(db.GetDB())
	auditRepo := repository.NewAuditLogRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())

	auditService := service.NewAuditService(auditRepo, cfg.Audit.MaxEntries)
	notificationService := service.NewNotificationService(notificationRepo)
	verificationService := service.NewVerificationService(
		vendorRepo,
		auditService,
		notificationService,
		nil,
	)

	admin, err := ensureUser(userRepo, model.User{
		Email: "admin@vendortrust.dev",
		Name:  "관리자",
		Role:  model.RoleAdmin,
	}, "admin1234!")
	if err != nil {
		log.Fatal("Failed to seed admin user:", err)
	}
	fmt.Printf("Admin user ready: %s (id=%d)\n", admin.Email, admin.ID)

	seller, err := ensureUser(userRepo, model.User{
		Email:        "seller@vendortrust.dev",
		Name:         "데모 판매자",
		BusinessName: "데모상회",
		Role:         model.RoleSeller,
	}, "seller1234!")
	if err != nil {
		log.Fatal("Failed to seed seller user:", err)
	}
	fmt.Printf("Seller user ready: %s (id=%d)\n", seller.Email, seller.ID)

	// 판매자 검증 레코드 초기화 (멱등)
	verification, err := verificationService.Initialize(seller.ID, seller.Name, seller.Email, seller.BusinessName)
	if err != nil {
		log.Fatal("Failed to initialize seller verification:", err)
	}
	fmt.Printf("Seller verification ready: vendor_id=%d overall_status=%s\n",
		verification.VendorID, verification.OverallStatus)

	fmt.Println("Seed completed successfully!")
}

// ensureUser 이메일 기준으로 사용자를 생성 (이미 있으면 그대로 반환)
func ensureUser(userRepo repository.UserRepository, user model.User, password string) (*model.User, error) {
	existing, err := userRepo.FindByEmail(user.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := userRepo.Create(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
