package main

import (
	"context"
	"time"

	"github.com/mindcarehq/mindcare/internal/app"
)

//go:generate go tool swag init --v3.1 --parseInternal --output docs

// @title           MindCare API
// @version         1.0
// @description     MindCare provides registration, mood tracking, wallet, journaling, support groups, sessions and a content catalog.
// @contact.name    MindCare Support
// @contact.email   support@mindcare.app
// @server          http://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	application := app.New()
	wait := application.Start()
	<-wait

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx)
}
