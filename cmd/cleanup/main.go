// cleanup 运维工具：统计用户数，二次确认后清空用户表。
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-auth-backend/internal/core/config"
	"go-auth-backend/internal/core/database"
	"go-auth-backend/internal/core/logger"
	"go-auth-backend/internal/domain"
	"go-auth-backend/internal/repo"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		log.Fatal("automigrate failed", zap.Error(err))
	}

	var count int64
	if err := db.Model(&domain.User{}).Count(&count).Error; err != nil {
		log.Fatal("count users", zap.Error(err))
	}
	fmt.Printf("current users in database: %d\n", count)

	fmt.Print("delete all users? (yes/no): ")
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	if strings.ToLower(strings.TrimSpace(answer)) != "yes" {
		fmt.Println("keeping existing users")
		return
	}

	users := repo.NewUserRepo(db)
	n, err := users.DeleteAll()
	if err != nil {
		log.Fatal("delete users", zap.Error(err))
	}
	log.Info("cleanup done", zap.Int64("deleted", n))
	fmt.Printf("deleted %d users\n", n)
}
