// Package domain contains the core business entities of the study
// assistant: registered users and the chats they save. Entities validate
// themselves and know nothing about storage or transport.
package domain
