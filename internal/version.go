package internal

// Version is the photobooth release version
const Version = "0.3.0"
