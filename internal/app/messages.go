// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// agricheck server handlers and middleware.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies. Farmer-facing messages are in Filipino; the account
// endpoints keep the English wording the mobile client matches on.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails struct validation.
	MsgInvalidDataProvided = "Hindi valid ang ipinadalang data. Pakisuri ang mga field at subukang muli."

	// MsgInvalidField takes the JSON field and the failed rule.
	MsgInvalidField = "Hindi valid ang ipinadalang data (field: %s, rule: %s). Pakisuri ang field at subukang muli."

	// MsgInternalServerError is returned for failures the client cannot
	// resolve. Raw error text is never appended.
	MsgInternalServerError = "May problema sa server. Pakisubukang muli."

	// MsgNotFound is returned for unknown routes and unsupported methods.
	MsgNotFound = "Hindi nahanap ang hinihinging resource."

	// MsgRequestTimeout is returned when a request exceeds the configured
	// per-request timeout.
	MsgRequestTimeout = "Masyadong natagalan ang request. Pakisubukang muli."
)

// Account messages.
const (
	MsgEmailAlreadyRegistered = "Email already registered"
	MsgInvalidCredentials     = "Invalid credentials"

	// MsgTokenInvalidOrExpired is returned by the auth middleware for a
	// missing, malformed or expired bearer token.
	MsgTokenInvalidOrExpired = "Hindi valid o nag-expire na ang token. Pakilagay muli ang inyong email at password."

	// MsgSessionUserNotFound is returned when a valid bearer token names a
	// user that no longer exists.
	MsgSessionUserNotFound = "Hindi nahanap ang user. Pakilagay muli ang inyong email at password."

	MsgSecurityQuestionsUpdated = "Matagumpay na na-update ang mga security question."
)

// Password reset messages.
const (
	MsgUserNotFound            = "Hindi nahanap ang user. Pakisiguro na tama ang email."
	MsgSecurityQuestionMissing = "Hindi nahanap ang security question. Pakisubukang muli."
	MsgInvalidQuestionIndex    = "Hindi valid ang question index. Dapat ay 0, 1, o 2."
	MsgWrongSecurityAnswer     = "Maling sagot. Pakisubukang muli."
	MsgEmptyPassword           = "Ang password ay hindi dapat walang laman."
	MsgPasswordTooShort        = "Ang password ay dapat hindi bababa sa 8 characters."
	MsgInvalidResetToken       = "Hindi valid ang reset token. Pakisubukang muli o mag-verify muli ng security answer."
	MsgResetTokenExpired       = "Nag-expire na ang reset token. Pakisubukang muli o mag-verify muli ng security answer."
	MsgPasswordUpdateFailed    = "May problema sa pag-update ng password. Pakisubukang muli."

	// MsgForgotPasswordAccepted is returned by forgot-password whether or not
	// the account exists.
	MsgForgotPasswordAccepted = "Kung may account ang email na ito, maaari na ninyong i-reset ang password gamit ang reset token."

	MsgPasswordResetSuccess = "Matagumpay na na-reset ang password. Maaari na kayong mag-login gamit ang bagong password."
)

// Scan messages. Entries ending in a format verb are used with fmt.Sprintf.
const (
	MsgFileNotImage    = "Ang file ay dapat na image. Pakipili ng image file."
	MsgFileTooLarge    = "Masyadong malaki ang image file. Pakipili ng mas maliit na litrato."
	MsgImageUnreadable = "Hindi ma-open ang image. Pakisiguro na valid ang image file."

	MsgImageDimensionsTooLarge = "Masyadong malaki ang sukat ng image. Pakiliitan ang resolution ng litrato at subukang muli."

	// MsgImageTooBlurry takes the blur score.
	MsgImageTooBlurry = "Ang image ay masyadong malabo (blur score: %.1f). Pakikumpara sa mas malinaw na litrato ng dahon ng palay kung saan makikita ang markings."

	MsgImageNotLeaf = "Ang image ay hindi mukhang dahon ng palay. Ang image ay dapat na dahon lamang ng palay na makikita ang markings. Pakikumpara sa dahon ng palay."

	MsgModelNotLoaded = "Ang ML model ay hindi pa na-load. Pakisubukang muli pagkatapos ng ilang segundo o i-restart ang backend server."

	// MsgLowConfidence takes the top confidence in percent.
	MsgLowConfidence = "Mababa ang kumpiyansa sa diagnosis (%.1f%%). Ang image ay maaaring hindi malinaw o hindi dahon ng palay. Pakikumpara sa mas malinaw at nakatutok na litrato ng dahon ng palay."

	// MsgUncertainDiagnosis takes the top and runner-up confidences.
	MsgUncertainDiagnosis = "Hindi tiyak ang diagnosis (%.1f%% vs %.1f%%). Ang image ay maaaring hindi malinaw o hindi dahon ng palay. Pakikumpara sa mas malinaw na litrato ng dahon ng palay."

	MsgScanProcessingFailed = "May problema sa pag-process ng scan. Pakisubukang muli."
	MsgScanNotFound         = "Hindi nahanap ang scan. Pakisubukang muli."
	MsgScanNotOwned         = "Hindi nahanap ang scan o hindi ka may-ari ng scan na ito."
	MsgImageNotFound        = "Hindi nahanap ang image file. Pakisubukang muli."
	MsgScanDeleted          = "Matagumpay na na-delete ang scan."
)
