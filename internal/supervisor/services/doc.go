// Daily Feed - Personalized RSS Aggregation and Scheduling
// Copyright 2026 Mozayed (mozayed007)
// SPDX-License-Identifier: MIT
// https://github.com/mozayed007/Daily-Feed

// Package services contains suture.Service adapters that wrap
// Start/Stop style components so the supervisor tree can manage them.
package services
