package server

//go:generate swag init -g internal/server/server.go -o docs/swagger

// @title pagesnap API
// @version 0.1
// @description Interactive documentation for the pagesnap capture API.
// @BasePath /
