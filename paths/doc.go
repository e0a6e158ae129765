// This file is part of Syncline.
//
// Syncline is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Syncline is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Syncline.  If not, see <https://www.gnu.org/licenses/>.

// Package paths prepares paths to syncline resources, for example the
// preferences file, and names for capture files.
//
// The ResourcePath() function prepends the base resource directory to the
// supplied resource:
//
//	pth, err := paths.ResourcePath("", "preferences")
//
// If a directory named ".syncline" exists in the current directory then that
// is the base resource directory. Otherwise the "syncline" directory in the
// user's config directory is used, as returned by os.UserConfigDir(). On a
// Linux system the example above will return:
//
//	/home/user/.config/syncline/preferences
//
// The directory part of the path is created if it does not already exist.
package paths
