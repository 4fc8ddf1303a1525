// Package templates holds the templ components for the tracker pages.
package templates
