package services

import "errors"

// Business errors surfaced to the caller. Controllers map them to HTTP
// statuses; none are retried, every one reflects caller intent or state.
var (
	ErrDuplicateDailyRecord = errors.New("une activité existe déjà pour cette date")
	ErrFutureDate           = errors.New("impossible de déclarer une activité pour une date future")
	ErrEditWindowExpired    = errors.New("impossible de modifier une activité des jours précédents")
	ErrAccessDenied         = errors.New("accès non autorisé à cette activité")
	ErrNotFound             = errors.New("ressource introuvable")
	ErrLastAdminDeletion    = errors.New("impossible de supprimer le dernier administrateur")
	ErrValidation           = errors.New("données invalides")
	ErrInvalidCredentials   = errors.New("les informations de connexion sont incorrectes")
)
