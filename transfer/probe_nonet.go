//go:build nonet

package transfer

const networkBuilt = false
