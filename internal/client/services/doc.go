// Package services contains the application workflows of the arch1v client:
// sign-in and registration, file upload with duplicate detection, and the
// registry view of archived files. Services report progress to the user
// through a Notifier and never talk HTTP directly; they go through
// client.Archive.
package services
