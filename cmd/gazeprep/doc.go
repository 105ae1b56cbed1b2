// Command gazeprep prepares gaze-annotated recordings for classifier
// training: it converts coder annotation files into per-frame label CSVs,
// assigns first and second coding passes, and stages session videos into
// the output tree.
package main
