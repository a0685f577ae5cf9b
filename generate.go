//go:generate go run ./internal/tools/versiongen -o .version

package inkline
