// SPDX-License-Identifier: MPL-2.0

// Package source loads script text from a local file or an http(s) URL.
package source
