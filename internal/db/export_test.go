package db

// KindOf exposes error classification to the external test package
var KindOf = kindOf
