// Daily Feed - Personalized RSS Aggregation and Scheduling
// Copyright 2026 Mozayed (mozayed007)
// SPDX-License-Identifier: MIT
// https://github.com/mozayed007/Daily-Feed

// Package supervisor provides Suture-based process supervision for
// Daily Feed's long-lived background services.
//
// The tree is built once at startup; services are adapted to suture's
// Serve pattern via the wrappers in the services subpackage.
package supervisor
