//go:build !gocv

package objdetect

func newEngine() engine { return newZXingEngine() }
