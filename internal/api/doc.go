// Retailboard - Retail Analytics Dashboard Backend
// Copyright 2026 Retailboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/retailboard/retailboard

// Package api provides the HTTP surface of the analytics service:
// Chi-based routing, the analytics query executor with its cache-first
// flow, and the JSON response envelope shared by every endpoint.
package api
