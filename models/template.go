package models

import "time"

const (
	DefaultTemplateTitle    = "¡Te invitamos a celebrar!"
	DefaultTemplateSubtitle = "Un día especial"
	DefaultPrimaryColor     = "#FF69B4"
	DefaultSecondaryColor   = "#FFD700"
	DefaultTextColor        = "#333333"
	DefaultBackgroundColor  = "#FFFFFF"
)

// Template is an organizer's reusable look for invitations.
type Template struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"-"`
	Name               string    `json:"name"`
	Description        *string   `json:"description"`
	Title              string    `json:"title"`
	Subtitle           string    `json:"subtitle"`
	HeaderText         string    `json:"header_text"`
	FooterText         string    `json:"footer_text"`
	PrimaryColor       string    `json:"primary_color"`
	SecondaryColor     string    `json:"secondary_color"`
	TextColor          string    `json:"text_color"`
	BackgroundColor    string    `json:"background_color"`
	LogoURL            *string   `json:"logo_url"`
	BackgroundImageURL *string   `json:"background_image_url"`
	IsActive           bool      `json:"is_active"`
	IsDefault          bool      `json:"is_default"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type CreateTemplateRequest struct {
	Name               string  `json:"name" binding:"required,max=255"`
	Description        *string `json:"description"`
	Title              *string `json:"title" binding:"omitempty,max=255"`
	Subtitle           *string `json:"subtitle" binding:"omitempty,max=255"`
	HeaderText         *string `json:"header_text"`
	FooterText         *string `json:"footer_text"`
	PrimaryColor       *string `json:"primary_color" binding:"omitempty,hexcolor,len=7"`
	SecondaryColor     *string `json:"secondary_color" binding:"omitempty,hexcolor,len=7"`
	TextColor          *string `json:"text_color" binding:"omitempty,hexcolor,len=7"`
	BackgroundColor    *string `json:"background_color" binding:"omitempty,hexcolor,len=7"`
	LogoURL            *string `json:"logo_url" binding:"omitempty,max=500"`
	BackgroundImageURL *string `json:"background_image_url" binding:"omitempty,max=500"`
	IsDefault          bool    `json:"is_default"`
}

// UpdateTemplateRequest lists exactly the mutable template fields.
type UpdateTemplateRequest struct {
	Name               *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description        *string `json:"description"`
	Title              *string `json:"title" binding:"omitempty,max=255"`
	Subtitle           *string `json:"subtitle" binding:"omitempty,max=255"`
	HeaderText         *string `json:"header_text"`
	FooterText         *string `json:"footer_text"`
	PrimaryColor       *string `json:"primary_color" binding:"omitempty,hexcolor,len=7"`
	SecondaryColor     *string `json:"secondary_color" binding:"omitempty,hexcolor,len=7"`
	TextColor          *string `json:"text_color" binding:"omitempty,hexcolor,len=7"`
	BackgroundColor    *string `json:"background_color" binding:"omitempty,hexcolor,len=7"`
	LogoURL            *string `json:"logo_url" binding:"omitempty,max=500"`
	BackgroundImageURL *string `json:"background_image_url" binding:"omitempty,max=500"`
	IsActive           *bool   `json:"is_active"`
	IsDefault          *bool   `json:"is_default"`
}

// NewTemplate builds a template from req, filling the defaults for every omitted field.
func NewTemplate(userID string, req CreateTemplateRequest) Template {
	t := Template{
		UserID:             userID,
		Name:               req.Name,
		Description:        req.Description,
		Title:              DefaultTemplateTitle,
		Subtitle:           DefaultTemplateSubtitle,
		PrimaryColor:       DefaultPrimaryColor,
		SecondaryColor:     DefaultSecondaryColor,
		TextColor:          DefaultTextColor,
		BackgroundColor:    DefaultBackgroundColor,
		LogoURL:            req.LogoURL,
		BackgroundImageURL: req.BackgroundImageURL,
		IsActive:           true,
		IsDefault:          req.IsDefault,
	}
	setIfPresent(&t.Title, req.Title)
	setIfPresent(&t.Subtitle, req.Subtitle)
	setIfPresent(&t.HeaderText, req.HeaderText)
	setIfPresent(&t.FooterText, req.FooterText)
	setIfPresent(&t.PrimaryColor, req.PrimaryColor)
	setIfPresent(&t.SecondaryColor, req.SecondaryColor)
	setIfPresent(&t.TextColor, req.TextColor)
	setIfPresent(&t.BackgroundColor, req.BackgroundColor)
	return t
}

func (r UpdateTemplateRequest) Apply(t *Template) {
	setIfPresent(&t.Name, r.Name)
	if r.Description != nil {
		t.Description = r.Description
	}
	setIfPresent(&t.Title, r.Title)
	setIfPresent(&t.Subtitle, r.Subtitle)
	setIfPresent(&t.HeaderText, r.HeaderText)
	setIfPresent(&t.FooterText, r.FooterText)
	setIfPresent(&t.PrimaryColor, r.PrimaryColor)
	setIfPresent(&t.SecondaryColor, r.SecondaryColor)
	setIfPresent(&t.TextColor, r.TextColor)
	setIfPresent(&t.BackgroundColor, r.BackgroundColor)
	if r.LogoURL != nil {
		t.LogoURL = r.LogoURL
	}
	if r.BackgroundImageURL != nil {
		t.BackgroundImageURL = r.BackgroundImageURL
	}
	setIfPresent(&t.IsActive, r.IsActive)
	setIfPresent(&t.IsDefault, r.IsDefault)
}

type TemplateListResponse struct {
	Templates []Template `json:"templates"`
	Total     int        `json:"total"`
}

func setIfPresent[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
