// Package tagged only declares its schema under the extra build tag.
package tagged
