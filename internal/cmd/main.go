package main

import (
	"context"
	"log/slog"

	"keynotes-cms/internal/middlewares"
)

func main() {
	token, _, err := middlewares.GenerateToken(context.Background(), []byte(middlewares.SigningKey), 0, "admin", []string{"admin"})
	if err != nil {
		slog.Error(err.Error())
	}

	slog.Info(token)
}
