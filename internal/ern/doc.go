// Package ern models Electronic Release Notification documents and maps the
// golden release metadata onto them. The XML hierarchy follows the DDEX ERN
// 4.3 shape: message header, release list, resource list, deal list.
package ern
