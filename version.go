package dictscot

// VERSION represents the current dictscot version
const VERSION = "1.0.0"
