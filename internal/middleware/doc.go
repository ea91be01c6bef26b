// Retailboard - Retail Analytics Dashboard Backend
// Copyright 2026 Retailboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/retailboard/retailboard

// Package middleware provides HTTP middleware shared by the API
// routes: request ID propagation, Prometheus instrumentation, and
// gzip response compression. The middleware is written against
// http.HandlerFunc and adapted to Chi's signature at the router.
package middleware
