// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction, common body
decoding patterns, and multipart upload parsing, ensuring consistent error
handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/minhdao/restora/internal/platform/apperr"
	"github.com/minhdao/restora/internal/platform/constants"
	"github.com/minhdao/restora/internal/platform/ctxutil"
	"github.com/minhdao/restora/internal/platform/sec"
	"github.com/minhdao/restora/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter (UUID/Slug) from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// # Multipart Uploads

// FormFile is a fully-read multipart upload part.
//
// Bytes are read eagerly so that downstream batch validation can inspect
// sizes before any storage I/O happens.
type FormFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

/*
FormFiles parses the multipart form and reads every part submitted under
the given field name.

Parameters:
  - request: *http.Request
  - field: string (Form field name, e.g. "files")

Returns:
  - []FormFile: Fully-read upload parts, in submission order
  - error: validate.ErrInvalidMultipart if the form cannot be parsed
*/
func FormFiles(request *http.Request, field string) ([]FormFile, error) {
	if err := request.ParseMultipartForm(constants.MaxMultipartMemory); err != nil {
		return nil, validate.ErrInvalidMultipart
	}

	if request.MultipartForm == nil {
		return nil, validate.ErrInvalidMultipart
	}

	headers := request.MultipartForm.File[field]
	files := make([]FormFile, 0, len(headers))

	for _, header := range headers {
		part, err := header.Open()
		if err != nil {
			return nil, validate.ErrInvalidMultipart
		}

		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, validate.ErrInvalidMultipart
		}

		files = append(files, FormFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	return files, nil
}

// # Identity

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {

	// Get user claims
	claims := ctxutil.GetAuthUser(request.Context())

	// If the user is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {

	// Get user claims
	claims, err := RequiredClaims(request)

	// If the user is not authenticated, return an error
	if err != nil {
		return "", err
	}

	return claims.UserID, nil
}
