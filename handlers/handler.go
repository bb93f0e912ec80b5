package handlers

import (
	"catalog-api/repository"
	"catalog-api/uploader"
	"catalog-api/utils"
)

// Handler wires the catalog handlers to their repositories and external
// collaborators. Repositories are constructed once at startup and passed in;
// there are no ambient model globals.
type Handler struct {
	Products repository.ProductRepository
	Reviews  repository.ReviewRepository
	Users    repository.UserRepository
	Uploader uploader.Uploader

	JWTSecret string

	ErrorHdlr    *utils.ErrorHandler
	ResponseHdlr *ResponseHandler
}

func NewHandler(products repository.ProductRepository, reviews repository.ReviewRepository, users repository.UserRepository, up uploader.Uploader, jwtSecret string) *Handler {
	return &Handler{
		Products:     products,
		Reviews:      reviews,
		Users:        users,
		Uploader:     up,
		JWTSecret:    jwtSecret,
		ErrorHdlr:    utils.NewErrorHandler(),
		ResponseHdlr: NewResponseHandler(),
	}
}
