package transcribe

// NoSpeechSentinel is returned instead of an empty or unusably short
// transcript so downstream stages never see a false success.
const NoSpeechSentinel = "No clear speech detected in the audio."
