package main

//go:generate swag init -g cmd/ingestor/main.go -o docs

// @title           CardVault Catalog Ingestion API
// @version         0.1.0
// @description     Multi-provider trading card catalog ingestion and cache population.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
