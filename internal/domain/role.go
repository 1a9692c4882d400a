package domain

// RoleUser is assigned to every account created through signup.
const RoleUser = "user"
