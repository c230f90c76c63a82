package objdetect

// QRCodeDetector finds and decodes QR codes. It holds native resources and
// must be released.
type QRCodeDetector struct {
	detector
}

// NewQRCodeDetector returns a detector backed by the default engine.
func NewQRCodeDetector() *QRCodeDetector {
	return &QRCodeDetector{detector: newDetector("QRCodeDetector", newEngine())}
}
